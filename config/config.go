package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config/config.yaml"

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Weather   WeatherConfig   `yaml:"weather"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Observe   ObserveConfig   `yaml:"observe"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"APP_NAME"`
	Version string `yaml:"version" envconfig:"APP_VERSION"`
	Env     string `yaml:"env" envconfig:"APP_ENV"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port         string `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout  int    `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout int    `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  int    `yaml:"idle_timeout" envconfig:"SERVER_IDLE_TIMEOUT"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

type WeatherConfig struct {
	GeocodingURL string             `yaml:"geocoding_url" envconfig:"WEATHER_GEOCODING_URL"`
	ForecastURL  string             `yaml:"forecast_url" envconfig:"WEATHER_FORECAST_URL"`
	Timeout      int                `yaml:"timeout" envconfig:"WEATHER_TIMEOUT"`
	APIs         []WeatherAPIConfig `yaml:"apis" ignored:"true"`
}

// WeatherAPIConfig overrides the base URL and timeout of a single upstream ("geocoding" or "forecast").
type WeatherAPIConfig struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url,omitempty"`
	Timeout int    `yaml:"timeout,omitempty"`
}

type DashboardConfig struct {
	DefaultCity  string `yaml:"default_city" envconfig:"DASHBOARD_DEFAULT_CITY"`
	HourlyWindow int    `yaml:"hourly_window" envconfig:"DASHBOARD_HOURLY_WINDOW"`
}

type ObserveConfig struct {
	SentryDSN      string `yaml:"sentry_dsn" envconfig:"SENTRY_DSN"`
	AppInsightsKey string `yaml:"appinsights_key" envconfig:"APPLICATIONINSIGHTS_INSTRUMENTATION_KEY"`
}

// Default returns the configuration used when neither the YAML file nor the environment set a value.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "forecastx",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10,
			WriteTimeout: 10,
			IdleTimeout:  120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Weather: WeatherConfig{
			GeocodingURL: "https://geocoding-api.open-meteo.com/v1/search",
			ForecastURL:  "https://api.open-meteo.com/v1/forecast",
			Timeout:      10,
		},
		Dashboard: DashboardConfig{
			DefaultCity:  "London",
			HourlyWindow: 24,
		},
	}
}

// ConfigProvider loads and validates a Config.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider reads a YAML file (optional) and then applies environment overrides.
type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cnf := Default()

	if err := p.loadFromFile(cnf); err != nil {
		return nil, err
	}

	// Sections are processed one by one so that keys stay unprefixed (APP_NAME, not APP_APP_NAME).
	sections := []any{&cnf.App, &cnf.Server, &cnf.Log, &cnf.Weather, &cnf.Dashboard, &cnf.Observe}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("error environment variable parsing: %w", err)
		}
	}

	return cnf, nil
}

func (p *FileConfigProvider) loadFromFile(cnf *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return nil
}

func (p *FileConfigProvider) Validate(config *Config) error {
	var problems []string

	if strings.TrimSpace(config.App.Name) == "" {
		problems = append(problems, "app.name is required")
	}
	if strings.TrimSpace(config.Server.Port) == "" {
		problems = append(problems, "server.port is required")
	}
	if config.Server.ReadTimeout <= 0 || config.Server.WriteTimeout <= 0 || config.Server.IdleTimeout <= 0 {
		problems = append(problems, "server timeouts must be positive")
	}
	switch config.Log.Format {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not supported", config.Log.Format))
	}
	if config.Dashboard.HourlyWindow <= 0 || config.Dashboard.HourlyWindow > 24 {
		problems = append(problems, "dashboard.hourly_window must be between 1 and 24")
	}
	for _, api := range config.Weather.APIs {
		if api.Name != "geocoding" && api.Name != "forecast" {
			problems = append(problems, fmt.Sprintf("weather.apis: unknown api %q", api.Name))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

// NewConfig loads .env (when present), config/config.yaml and the environment.
func NewConfig() (*Config, error) {
	return NewConfigFromPath(DefaultConfigPath)
}

// NewConfigFromPath loads .env when present, then the YAML file at path, then the environment.
func NewConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	return NewConfigWithProvider(NewFileConfigProvider(path))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}

	if err := provider.Validate(cnf); err != nil {
		return nil, err
	}

	return cnf, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) GetWeatherAPIs() []WeatherAPIConfig {
	return c.Weather.APIs
}

func (c *Config) GetWeatherAPIByName(name string) (*WeatherAPIConfig, bool) {
	for i := range c.Weather.APIs {
		if c.Weather.APIs[i].Name == name {
			return &c.Weather.APIs[i], true
		}
	}
	return nil, false
}

// UpstreamURL returns the configured base URL for the named upstream, honouring weather.apis overrides.
func (c *Config) UpstreamURL(name string) string {
	if api, ok := c.GetWeatherAPIByName(name); ok && api.BaseURL != "" {
		return api.BaseURL
	}
	if name == "geocoding" {
		return c.Weather.GeocodingURL
	}
	return c.Weather.ForecastURL
}

// UpstreamTimeout returns the HTTP timeout in seconds for the named upstream.
func (c *Config) UpstreamTimeout(name string) int {
	if api, ok := c.GetWeatherAPIByName(name); ok && api.Timeout > 0 {
		return api.Timeout
	}
	return c.Weather.Timeout
}
