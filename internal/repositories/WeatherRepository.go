package repositories

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"forecastx/config"
	"forecastx/internal/models"
	"forecastx/pkg/logger"
	"forecastx/pkg/observe"
)

// ErrLocationNotFound is returned by a GeocodingRepository when the service has no match.
// It is an expected outcome, not an upstream fault.
var ErrLocationNotFound = errors.New("location not found")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type GeocodingRepository interface {
	Name() string
	Resolve(ctx context.Context, city string) (models.Location, error)
}

type ForecastRepository interface {
	Name() string
	// FetchForecast shapes at most hours hourly points; hours <= 0 keeps everything upstream returned.
	FetchForecast(ctx context.Context, location models.Location, hours int) (models.Forecast, error)
}

type WeatherRepositories struct {
	Geocoding GeocodingRepository
	Forecast  ForecastRepository
}

func InitWeatherRepositories(cfg *config.Config, l *logger.Logger, telemetry *observe.Telemetry) WeatherRepositories {
	return WeatherRepositories{
		Geocoding: NewGeocodingRepository(
			cfg.UpstreamURL("geocoding"),
			l,
			&http.Client{Timeout: time.Duration(cfg.UpstreamTimeout("geocoding")) * time.Second},
			telemetry,
		),
		Forecast: NewOpenMeteoRepository(
			cfg.UpstreamURL("forecast"),
			l,
			&http.Client{Timeout: time.Duration(cfg.UpstreamTimeout("forecast")) * time.Second},
			telemetry,
		),
	}
}
