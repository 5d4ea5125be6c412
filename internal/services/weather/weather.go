package weather

import (
	"context"

	"github.com/pkg/errors"

	"forecastx/internal/models"
	"forecastx/internal/repositories"
	"forecastx/pkg/logger"
)

type runIDKey struct{}

// WithRunID attaches a correlation id that every log line of the run will carry.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// cancelled reports whether err comes from the caller abandoning the run, as happens when a
// newer query supersedes it. Deadlines are upstream faults and do not count.
func cancelled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled)
}

// Resolver maps a free-text city name to a Location through the geocoding repository.
type Resolver struct {
	repo repositories.GeocodingRepository
	l    *logger.Logger
}

func NewResolver(repo repositories.GeocodingRepository, l *logger.Logger) *Resolver {
	return &Resolver{
		repo: repo,
		l:    l,
	}
}

// Resolve returns the best match for city. When ok is false the returned result is
// NotFound or a geocoding-stage UpstreamError and the location must not be used.
func (r *Resolver) Resolve(ctx context.Context, city string) (location models.Location, failure models.ForecastResult, ok bool) {
	location, err := r.repo.Resolve(ctx, city)
	if errors.Is(err, repositories.ErrLocationNotFound) {
		r.l.Info("city not found", map[string]any{
			"city":   city,
			"run_id": RunID(ctx),
		})
		return models.Location{}, models.NotFound(city), false
	}
	if err != nil && cancelled(ctx, err) {
		r.l.Info("run cancelled during geocoding", map[string]any{
			"city":   city,
			"run_id": RunID(ctx),
		})
		return models.Location{}, models.UpstreamFailure(city, models.StageGeocoding, err), false
	}
	if err != nil {
		r.l.Error(errors.Wrapf(err, "geocoding failed for %s", city), map[string]any{
			"city":     city,
			"stage":    models.StageGeocoding,
			"upstream": r.repo.Name(),
			"run_id":   RunID(ctx),
		})
		return models.Location{}, models.UpstreamFailure(city, models.StageGeocoding, err), false
	}

	r.l.Debug("city resolved", map[string]any{
		"city":     city,
		"location": location.DisplayName(),
		"params":   location.RequestParams(),
		"run_id":   RunID(ctx),
	})
	return location, models.ForecastResult{}, true
}

// Fetcher retrieves current conditions and the hourly window for a resolved Location.
type Fetcher struct {
	repo   repositories.ForecastRepository
	window int
	l      *logger.Logger
}

// NewFetcher keeps at most window hourly points; values outside 1..24 mean 24.
func NewFetcher(repo repositories.ForecastRepository, window int, l *logger.Logger) *Fetcher {
	if window <= 0 || window > models.MaxHourlyPoints {
		window = models.MaxHourlyPoints
	}
	return &Fetcher{
		repo:   repo,
		window: window,
		l:      l,
	}
}

// Fetch returns Found or a forecast-stage UpstreamError, never NotFound.
func (f *Fetcher) Fetch(ctx context.Context, city string, location models.Location) models.ForecastResult {
	forecast, err := f.repo.FetchForecast(ctx, location, f.window)
	if err != nil && cancelled(ctx, err) {
		f.l.Info("run cancelled during forecast", map[string]any{
			"city":   city,
			"run_id": RunID(ctx),
		})
		return models.UpstreamFailure(location.DisplayName(), models.StageForecast, err)
	}
	if err != nil {
		f.l.Error(errors.Wrapf(err, "forecast failed for %s", location.DisplayName()), map[string]any{
			"city":     city,
			"stage":    models.StageForecast,
			"upstream": f.repo.Name(),
			"params":   location.RequestParams(),
			"run_id":   RunID(ctx),
		})
		return models.UpstreamFailure(location.DisplayName(), models.StageForecast, err)
	}

	forecast.Hourly = forecast.Hourly.Head(f.window)

	f.l.Info("forecast fetched", map[string]any{
		"city":     city,
		"location": location.DisplayName(),
		"hours":    len(forecast.Hourly),
		"run_id":   RunID(ctx),
	})
	return models.Found(city, location, forecast)
}
