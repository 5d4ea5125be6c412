package models

import "fmt"

type ResultKind string

const (
	KindFound         ResultKind = "found"
	KindNotFound      ResultKind = "not_found"
	KindUpstreamError ResultKind = "upstream_error"
)

// Stage names the upstream call that failed.
type Stage string

const (
	StageGeocoding Stage = "geocoding"
	StageForecast  Stage = "forecast"
)

// ForecastResult is the outcome of one pipeline run. Kind selects which fields are set:
// found carries Location, Current and Hourly; not_found and upstream_error carry only QueriedCity
// (plus Stage and Cause for upstream_error).
type ForecastResult struct {
	Kind        ResultKind         `json:"kind" example:"found"`
	QueriedCity string             `json:"queried_city" example:"London"`
	Location    *Location          `json:"location,omitempty"`
	Current     *CurrentConditions `json:"current,omitempty"`
	Hourly      HourlySeries       `json:"hourly,omitempty"`
	Stage       Stage              `json:"stage,omitempty" example:"forecast"`
	Cause       string             `json:"-"`
}

func Found(city string, location Location, forecast Forecast) ForecastResult {
	current := forecast.Current
	return ForecastResult{
		Kind:        KindFound,
		QueriedCity: city,
		Location:    &location,
		Current:     &current,
		Hourly:      forecast.Hourly,
	}
}

func NotFound(city string) ForecastResult {
	return ForecastResult{
		Kind:        KindNotFound,
		QueriedCity: city,
	}
}

func UpstreamFailure(city string, stage Stage, cause error) ForecastResult {
	r := ForecastResult{
		Kind:        KindUpstreamError,
		QueriedCity: city,
		Stage:       stage,
	}
	if cause != nil {
		r.Cause = cause.Error()
	}
	return r
}

func (r ForecastResult) IsFound() bool {
	return r.Kind == KindFound
}

// Message is the user-facing text for a non-found result; the upstream cause is left out.
func (r ForecastResult) Message() string {
	switch r.Kind {
	case KindNotFound:
		return fmt.Sprintf("City '%s' not found", r.QueriedCity)
	case KindUpstreamError:
		if r.Stage == StageForecast {
			return fmt.Sprintf("Found '%s' but the forecast service is unavailable", r.QueriedCity)
		}
		return fmt.Sprintf("Could not look up '%s': location service unavailable", r.QueriedCity)
	}
	return ""
}

// Chart returns the chart dataset; it is empty unless the result is found.
func (r ForecastResult) Chart() ChartData {
	if !r.IsFound() {
		return HourlySeries(nil).Chart()
	}
	return r.Hourly.Chart()
}
