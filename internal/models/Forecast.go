package models

import "time"

// MaxHourlyPoints is the length of the dashboard's hourly window.
const MaxHourlyPoints = 24

type CurrentConditions struct {
	TemperatureC    float64   `json:"temperature_c" example:"14.2"`
	HumidityPct     float64   `json:"humidity_pct" example:"72"`
	PrecipitationMm float64   `json:"precipitation_mm" example:"0.1"`
	WindKph         float64   `json:"wind_kph" example:"11.5"`
	ObservedAt      time.Time `json:"observed_at"`
}

type HourlyPoint struct {
	Time            time.Time `json:"time"`
	TemperatureC    float64   `json:"temperature_c" example:"13.8"`
	PrecipitationMm float64   `json:"precipitation_mm" example:"0.0"`
}

// HourlySeries keeps the upstream order; it is never sorted.
type HourlySeries []HourlyPoint

// Head returns the first n points, or the whole series when it is shorter.
func (s HourlySeries) Head(n int) HourlySeries {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[:n:n]
}

// Forecast is the shaped payload of one forecast request.
type Forecast struct {
	Current CurrentConditions `json:"current"`
	Hourly  HourlySeries      `json:"hourly"`
}

// ChartData is the dataset behind the 24-hour chart: one time axis shared by both series.
type ChartData struct {
	Times           []time.Time `json:"times"`
	TemperatureC    []float64   `json:"temperature_c"`
	PrecipitationMm []float64   `json:"precipitation_mm"`
}

func (c ChartData) Len() int {
	return len(c.Times)
}

func (s HourlySeries) Chart() ChartData {
	data := ChartData{
		Times:           make([]time.Time, 0, len(s)),
		TemperatureC:    make([]float64, 0, len(s)),
		PrecipitationMm: make([]float64, 0, len(s)),
	}
	for _, p := range s {
		data.Times = append(data.Times, p.Time)
		data.TemperatureC = append(data.TemperatureC, p.TemperatureC)
		data.PrecipitationMm = append(data.PrecipitationMm, p.PrecipitationMm)
	}
	return data
}
