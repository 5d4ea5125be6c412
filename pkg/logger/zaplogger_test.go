package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_InfoWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLoggerWithOptions(Options{AppName: "forecastx", AppEnv: "test", Level: "info", Format: "json"}, &buf)

	l.Info("resolving city", map[string]any{"city": "London"})
	require.NoError(t, l.Stop())

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "resolving city", entries[0]["msg"])
	assert.Equal(t, "London", entries[0]["city"])
	assert.Equal(t, "forecastx", entries[0]["app_name"])
	assert.Equal(t, "test", entries[0]["app_zone"])
	assert.Contains(t, entries[0]["caller_func"], "TestLogger_InfoWritesStructuredFields")
	assert.NotEmpty(t, entries[0]["timestamp"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLoggerWithOptions(Options{AppName: "forecastx", Level: "warn"}, &buf)

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warning("shown", map[string]any{"stage": "forecast"})
	l.Error(errors.New("upstream failed"), map[string]any{"city": "Paris"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "upstream failed", entries[1]["error"])
	assert.Equal(t, "Paris", entries[1]["city"])
	assert.Contains(t, entries[1]["caller_func"], "TestLogger_LevelFiltering")
}

func TestLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLoggerWithOptions(Options{Level: "chatty"}, &buf)

	l.Debug("hidden")
	l.Info("shown")

	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestLogger_Nop(t *testing.T) {
	l := NewNop()
	l.Info("nothing")
	l.Error(errors.New("nothing"))
	assert.NoError(t, l.Stop())
}
