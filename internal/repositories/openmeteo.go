package repositories

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"forecastx/internal/models"
	"forecastx/pkg/logger"
	"forecastx/pkg/observe"
)

const (
	OpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

	// Open-Meteo returns local timestamps without seconds or offset when timezone=auto.
	openMeteoTimeLayout = "2006-01-02T15:04"
)

var (
	currentVariables = []string{"temperature_2m", "relative_humidity_2m", "precipitation", "wind_speed_10m"}
	hourlyVariables  = []string{"temperature_2m", "relative_humidity_2m", "precipitation"}
)

type OpenMeteoRepository struct {
	upstream
}

func NewOpenMeteoRepository(baseURL string, l *logger.Logger, httpClient HTTPClient, telemetry *observe.Telemetry) *OpenMeteoRepository {
	if baseURL == "" {
		baseURL = OpenMeteoBaseURL
	}
	return &OpenMeteoRepository{
		upstream: upstream{
			name:       "open-meteo forecast",
			baseURL:    baseURL,
			httpClient: httpClient,
			telemetry:  telemetry,
			l:          l,
		},
	}
}

func (o *OpenMeteoRepository) Name() string {
	return "open-meteo"
}

type OpenMeteoCurrent struct {
	Time               string   `json:"time"`
	Temperature2m      *float64 `json:"temperature_2m"`
	RelativeHumidity2m *float64 `json:"relative_humidity_2m"`
	Precipitation      *float64 `json:"precipitation"`
	WindSpeed10m       *float64 `json:"wind_speed_10m"`
}

type OpenMeteoHourly struct {
	Time               []string   `json:"time"`
	Temperature2m      []*float64 `json:"temperature_2m"`
	RelativeHumidity2m []*float64 `json:"relative_humidity_2m"`
	Precipitation      []*float64 `json:"precipitation"`
}

type OpenMeteoResponse struct {
	Timezone             string            `json:"timezone"`
	TimezoneAbbreviation string            `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int               `json:"utc_offset_seconds"`
	Current              *OpenMeteoCurrent `json:"current"`
	Hourly               *OpenMeteoHourly  `json:"hourly"`
}

func (o *OpenMeteoRepository) FetchForecast(ctx context.Context, location models.Location, hours int) (models.Forecast, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", location.Latitude))
	query.Set("longitude", fmt.Sprintf("%.4f", location.Longitude))
	query.Set("current", strings.Join(currentVariables, ","))
	query.Set("hourly", strings.Join(hourlyVariables, ","))
	query.Set("timezone", "auto")

	o.l.Info("making openmeteo API request", map[string]any{
		"params": location.RequestParams(),
	})

	var response OpenMeteoResponse
	if err := o.getJSON(ctx, query, &response); err != nil {
		return models.Forecast{}, err
	}

	if response.Current == nil {
		return models.Forecast{}, errors.New("forecast response is missing the current block")
	}
	if response.Hourly == nil {
		return models.Forecast{}, errors.New("forecast response is missing the hourly block")
	}

	loc := responseLocation(response)

	current, err := currentConditions(*response.Current, loc)
	if err != nil {
		return models.Forecast{}, errors.Wrap(err, "failed to build current conditions")
	}

	o.l.Info("parsed API response", map[string]any{
		"hours":         len(response.Hourly.Time),
		"temperatures":  len(response.Hourly.Temperature2m),
		"precipitation": len(response.Hourly.Precipitation),
	})

	if h := response.Hourly; len(h.Time) != len(h.Temperature2m) || len(h.Time) != len(h.Precipitation) {
		o.l.Warning("hourly arrays differ in length, truncating to the shortest", map[string]any{
			"params":        location.RequestParams(),
			"hours":         len(h.Time),
			"temperatures":  len(h.Temperature2m),
			"precipitation": len(h.Precipitation),
		})
	}

	hourly, err := hourlySeries(*response.Hourly, hours, loc)
	if err != nil {
		return models.Forecast{}, errors.Wrap(err, "failed to build hourly series")
	}

	return models.Forecast{
		Current: current,
		Hourly:  hourly,
	}, nil
}

func responseLocation(response OpenMeteoResponse) *time.Location {
	name := response.TimezoneAbbreviation
	if name == "" {
		name = response.Timezone
	}
	if name == "" && response.UTCOffsetSeconds == 0 {
		return time.UTC
	}
	return time.FixedZone(name, response.UTCOffsetSeconds)
}

func currentConditions(current OpenMeteoCurrent, loc *time.Location) (models.CurrentConditions, error) {
	missing := []string{}
	if current.Temperature2m == nil {
		missing = append(missing, "temperature_2m")
	}
	if current.RelativeHumidity2m == nil {
		missing = append(missing, "relative_humidity_2m")
	}
	if current.Precipitation == nil {
		missing = append(missing, "precipitation")
	}
	if current.WindSpeed10m == nil {
		missing = append(missing, "wind_speed_10m")
	}
	if len(missing) > 0 {
		return models.CurrentConditions{}, errors.Errorf("missing current fields: %s", strings.Join(missing, ","))
	}

	conditions := models.CurrentConditions{
		TemperatureC:    *current.Temperature2m,
		HumidityPct:     *current.RelativeHumidity2m,
		PrecipitationMm: *current.Precipitation,
		WindKph:         *current.WindSpeed10m,
	}

	if current.Time != "" {
		observedAt, err := time.ParseInLocation(openMeteoTimeLayout, current.Time, loc)
		if err != nil {
			return models.CurrentConditions{}, errors.Wrapf(err, "failed to parse current time %s", current.Time)
		}
		conditions.ObservedAt = observedAt
	}

	return conditions, nil
}

// hourlySeries pairs the first hours entries of the parallel hourly arrays by index.
// Arrays of different lengths are truncated to the shortest one. Null values and bad
// timestamps are rejected only inside the window.
func hourlySeries(hourly OpenMeteoHourly, hours int, loc *time.Location) (models.HourlySeries, error) {
	if hourly.Time == nil || hourly.Temperature2m == nil || hourly.Precipitation == nil {
		return nil, errors.New("hourly block is missing time, temperature_2m or precipitation")
	}

	// Find the minimum length to avoid index out of bounds
	minLength := min(len(hourly.Time), len(hourly.Temperature2m), len(hourly.Precipitation))
	if minLength == 0 {
		return nil, errors.New("no hourly forecast data available")
	}
	if hours > 0 {
		minLength = min(minLength, hours)
	}

	series := make(models.HourlySeries, 0, minLength)
	for i := 0; i < minLength; i++ {
		point, err := hourlyPoint(hourly, i, loc)
		if err != nil {
			return nil, err
		}
		series = append(series, point)
	}

	return series, nil
}

func hourlyPoint(hourly OpenMeteoHourly, index int, loc *time.Location) (models.HourlyPoint, error) {
	ts, err := time.ParseInLocation(openMeteoTimeLayout, hourly.Time[index], loc)
	if err != nil {
		return models.HourlyPoint{}, errors.Wrapf(err, "failed to parse hourly time %s", hourly.Time[index])
	}

	temperature := hourly.Temperature2m[index]
	precipitation := hourly.Precipitation[index]
	if temperature == nil || precipitation == nil {
		return models.HourlyPoint{}, errors.Errorf("null hourly value at %s", hourly.Time[index])
	}

	return models.HourlyPoint{
		Time:            ts,
		TemperatureC:    *temperature,
		PrecipitationMm: *precipitation,
	}, nil
}
