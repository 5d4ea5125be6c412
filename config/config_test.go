package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	// Test with default values (without config file)
	provider := NewFileConfigProvider("nonexistent.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)
	assert.NotNil(t, config)

	assert.Equal(t, "forecastx", config.App.Name)
	assert.Equal(t, "1.0.0", config.App.Version)
	assert.Equal(t, "development", config.App.Env)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, 10, config.Server.ReadTimeout)
	assert.Equal(t, 10, config.Server.WriteTimeout)
	assert.Equal(t, 120, config.Server.IdleTimeout)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "London", config.Dashboard.DefaultCity)
	assert.Equal(t, 24, config.Dashboard.HourlyWindow)
	assert.Equal(t, "https://geocoding-api.open-meteo.com/v1/search", config.Weather.GeocodingURL)
	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", config.Weather.ForecastURL)

	// Without config file there are no per-api overrides
	assert.Len(t, config.Weather.APIs, 0)
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	t.Setenv("APP_NAME", "test-app")
	t.Setenv("APP_VERSION", "2.0.0")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DASHBOARD_DEFAULT_CITY", "Paris")
	t.Setenv("WEATHER_TIMEOUT", "3")

	provider := NewFileConfigProvider("nonexistent.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)

	assert.Equal(t, "test-app", config.App.Name)
	assert.Equal(t, "2.0.0", config.App.Version)
	assert.Equal(t, "production", config.App.Env)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "Paris", config.Dashboard.DefaultCity)
	assert.Equal(t, 3, config.Weather.Timeout)
}

func TestConfigFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlData := []byte(`
app:
  name: from-file
dashboard:
  default_city: Berlin
weather:
  apis:
    - name: forecast
      base_url: http://localhost:9999/v1/forecast
      timeout: 2
`)
	require.NoError(t, os.WriteFile(path, yamlData, 0o600))
	t.Setenv("DASHBOARD_DEFAULT_CITY", "Rome")

	config, err := NewConfigWithProvider(NewFileConfigProvider(path))
	require.NoError(t, err)

	assert.Equal(t, "from-file", config.App.Name)
	assert.Equal(t, "Rome", config.Dashboard.DefaultCity)
	// values absent from the file keep their defaults
	assert.Equal(t, "8080", config.Server.Port)

	assert.Equal(t, "http://localhost:9999/v1/forecast", config.UpstreamURL("forecast"))
	assert.Equal(t, 2, config.UpstreamTimeout("forecast"))
	assert.Equal(t, "https://geocoding-api.open-meteo.com/v1/search", config.UpstreamURL("geocoding"))
	assert.Equal(t, 10, config.UpstreamTimeout("geocoding"))
}

func TestConfigValidation(t *testing.T) {
	provider := NewFileConfigProvider(DefaultConfigPath)

	config := Default()
	config.Weather.APIs = []WeatherAPIConfig{{Name: "forecast", Timeout: 30}}
	assert.NoError(t, provider.Validate(config))

	invalidConfig := Default()
	invalidConfig.App.Name = ""
	err := provider.Validate(invalidConfig)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "app.name is required")

	invalidConfig = Default()
	invalidConfig.Dashboard.HourlyWindow = 48
	invalidConfig.Log.Format = "xml"
	invalidConfig.Weather.APIs = []WeatherAPIConfig{{Name: "weatherapi"}}
	err = provider.Validate(invalidConfig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hourly_window")
	assert.Contains(t, err.Error(), `log.format "xml"`)
	assert.Contains(t, err.Error(), `unknown api "weatherapi"`)
}

func TestConfigHelperMethods(t *testing.T) {
	config := &Config{
		App: AppConfig{
			Env: "development",
		},
		Weather: WeatherConfig{
			APIs: []WeatherAPIConfig{
				{Name: "geocoding", Timeout: 5},
				{Name: "forecast", Timeout: 30},
			},
		},
	}

	assert.True(t, config.IsDevelopment())
	assert.False(t, config.IsProduction())

	api, found := config.GetWeatherAPIByName("geocoding")
	assert.True(t, found)
	assert.Equal(t, "geocoding", api.Name)

	api, found = config.GetWeatherAPIByName("nonexistent")
	assert.False(t, found)
	assert.Nil(t, api)

	apis := config.GetWeatherAPIs()
	assert.Len(t, apis, 2)
	assert.Equal(t, "geocoding", apis[0].Name)
	assert.Equal(t, "forecast", apis[1].Name)
}

func TestFileConfigProvider_LoadFromFile(t *testing.T) {
	provider := NewFileConfigProvider("nonexistent.yaml")
	config := &Config{}

	// loading from a missing file is not an error
	err := provider.loadFromFile(config)
	assert.NoError(t, err)
}

func TestFileConfigProvider_LoadFromFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o600))

	_, err := NewFileConfigProvider(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML config")
}

func TestNewConfigWithProvider(t *testing.T) {
	mockProvider := &MockConfigProvider{config: Default()}
	mockProvider.config.App.Name = "test-app"

	config, err := NewConfigWithProvider(mockProvider)
	require.NoError(t, err)
	assert.Equal(t, "test-app", config.App.Name)

	_, err = NewConfigWithProvider(&MockConfigProvider{err: errors.New("boom")})
	assert.EqualError(t, err, "boom")
}

func TestConfigFileLoading(t *testing.T) {
	// The test binary runs inside config/, so the shipped file is config.yaml here.
	config, err := NewConfigWithProvider(NewFileConfigProvider("config.yaml"))
	require.NoError(t, err)

	require.Len(t, config.Weather.APIs, 2)
	assert.Equal(t, "geocoding", config.Weather.APIs[0].Name)
	assert.Equal(t, "forecast", config.Weather.APIs[1].Name)
	assert.Equal(t, 5, config.UpstreamTimeout("geocoding"))
}

// MockConfigProvider for testing
type MockConfigProvider struct {
	config *Config
	err    error
}

func (m *MockConfigProvider) Load() (*Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.config, nil
}

func (m *MockConfigProvider) Validate(config *Config) error {
	return nil
}

func TestNewConfigFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboard:\n  default_city: Berlin\n  hourly_window: 12\n"), 0o600))

	config, err := NewConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", config.Dashboard.DefaultCity)
	assert.Equal(t, 12, config.Dashboard.HourlyWindow)

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboard:\n  hourly_window: 48\n"), 0o600))

	_, err = NewConfigFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
