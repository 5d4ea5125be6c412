package observe

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/microsoft/ApplicationInsights-Go/appinsights"
)

// Telemetry reports HTTP requests and upstream dependency calls to Application Insights.
// The zero value and a Telemetry built without an instrumentation key are no-ops.
type Telemetry struct {
	client appinsights.TelemetryClient
}

func NewTelemetry(instrumentationKey, role string) *Telemetry {
	if instrumentationKey == "" {
		return &Telemetry{}
	}

	telemetryConfig := appinsights.NewTelemetryConfiguration(instrumentationKey)
	// Configure how many items can be sent in one call to the data collector:
	telemetryConfig.MaxBatchSize = 8192
	// Configure the maximum delay before sending queued telemetry:
	telemetryConfig.MaxBatchInterval = 2 * time.Second

	client := appinsights.NewTelemetryClientFromConfig(telemetryConfig)
	client.Context().Tags.Cloud().SetRole(role)

	return &Telemetry{client: client}
}

func newTelemetryWithClient(client appinsights.TelemetryClient) *Telemetry {
	return &Telemetry{client: client}
}

func (t *Telemetry) Enabled() bool {
	return t != nil && t.client != nil
}

// TrackDependency records one outbound call, e.g. ("open-meteo geocoding", "HTTP", host).
func (t *Telemetry) TrackDependency(name, target string, started time.Time, success bool, resultCode int) {
	if !t.Enabled() {
		return
	}
	dependency := appinsights.NewRemoteDependencyTelemetry(name, "HTTP", target, success)
	dependency.Duration = time.Since(started)
	dependency.ResultCode = strconv.Itoa(resultCode)
	t.client.Track(dependency)
}

// Middleware tracks every fiber request as RequestTelemetry.
func (t *Telemetry) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !t.Enabled() {
			return c.Next()
		}

		startTime := time.Now().UTC()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		telemetry := appinsights.NewRequestTelemetry(
			c.Method(),
			fmt.Sprintf("%s://%s%s", c.Protocol(), c.Hostname(), c.Path()),
			time.Since(startTime),
			strconv.Itoa(status),
		)
		telemetry.Name = c.Method() + " " + c.Route().Path
		t.client.Track(telemetry)

		return err
	}
}

// Close flushes queued telemetry, waiting at most timeout.
func (t *Telemetry) Close(timeout time.Duration) {
	if !t.Enabled() {
		return
	}
	select {
	case <-t.client.Channel().Close(timeout):
	case <-time.After(timeout):
	}
}
