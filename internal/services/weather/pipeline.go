package weather

import (
	"context"
	"strings"

	"forecastx/internal/models"
	"forecastx/internal/repositories"
	"forecastx/pkg/logger"
)

type State string

const (
	StateIdle      State = "idle"
	StateResolving State = "resolving"
	StateFetching  State = "fetching"
	StateReady     State = "ready"
	StateFailed    State = "failed"
)

// StateOf is the terminal state a result leaves the pipeline in.
func StateOf(result models.ForecastResult) State {
	if result.IsFound() {
		return StateReady
	}
	return StateFailed
}

// Pipeline runs lookup then fetch for one city. It holds no state between runs.
type Pipeline struct {
	resolver *Resolver
	fetcher  *Fetcher
	l        *logger.Logger
}

func NewPipeline(repos repositories.WeatherRepositories, hourlyWindow int, l *logger.Logger) *Pipeline {
	return &Pipeline{
		resolver: NewResolver(repos.Geocoding, l),
		fetcher:  NewFetcher(repos.Forecast, hourlyWindow, l),
		l:        l,
	}
}

// IsBlank reports whether city carries no query at all.
func IsBlank(city string) bool {
	return strings.TrimSpace(city) == ""
}

// Run resolves city and fetches its forecast. A blank city is not a query: the pipeline
// is not invoked and ok is false.
func (p *Pipeline) Run(ctx context.Context, city string) (result models.ForecastResult, ok bool) {
	return p.RunTracked(ctx, city, nil)
}

// RunTracked is Run with every state transition reported to track, starting with Resolving.
func (p *Pipeline) RunTracked(ctx context.Context, city string, track func(State)) (models.ForecastResult, bool) {
	if IsBlank(city) {
		return models.ForecastResult{}, false
	}
	if track == nil {
		track = func(State) {}
	}

	p.l.Info("running forecast pipeline", map[string]any{
		"city":   city,
		"run_id": RunID(ctx),
	})

	track(StateResolving)
	location, failure, ok := p.resolver.Resolve(ctx, city)
	if !ok {
		track(StateFailed)
		return failure, true
	}

	track(StateFetching)
	result := p.fetcher.Fetch(ctx, city, location)
	track(StateOf(result))

	return result, true
}
