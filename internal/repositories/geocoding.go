package repositories

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"forecastx/internal/models"
	"forecastx/pkg/logger"
	"forecastx/pkg/observe"
)

const (
	GeocodingBaseURL = "https://geocoding-api.open-meteo.com/v1/search"
)

type GeocodingAPIRepository struct {
	upstream
}

func NewGeocodingRepository(baseURL string, l *logger.Logger, httpClient HTTPClient, telemetry *observe.Telemetry) *GeocodingAPIRepository {
	if baseURL == "" {
		baseURL = GeocodingBaseURL
	}
	return &GeocodingAPIRepository{
		upstream: upstream{
			name:       "open-meteo geocoding",
			baseURL:    baseURL,
			httpClient: httpClient,
			telemetry:  telemetry,
			l:          l,
		},
	}
}

func (g *GeocodingAPIRepository) Name() string {
	return "open-meteo-geocoding"
}

type GeocodingResponse struct {
	Results []GeocodingResult `json:"results"`
}

// GeocodingResult fields are pointers so that a missing key can be told apart from a zero value.
type GeocodingResult struct {
	Name      *string  `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Country   *string  `json:"country"`
	Timezone  string   `json:"timezone"`
}

// Resolve asks for exactly one English-language match and returns it as a Location.
func (g *GeocodingAPIRepository) Resolve(ctx context.Context, city string) (models.Location, error) {
	query := url.Values{}
	query.Set("name", city)
	query.Set("count", "1")
	query.Set("language", "en")
	query.Set("format", "json")

	g.l.Info("making geocoding API request", map[string]any{
		"city": city,
	})

	var response GeocodingResponse
	if err := g.getJSON(ctx, query, &response); err != nil {
		return models.Location{}, err
	}

	if len(response.Results) == 0 {
		return models.Location{}, ErrLocationNotFound
	}

	return locationFromResult(response.Results[0])
}

func locationFromResult(r GeocodingResult) (models.Location, error) {
	switch {
	case r.Latitude == nil:
		return models.Location{}, errors.New("geocoding result is missing latitude")
	case r.Longitude == nil:
		return models.Location{}, errors.New("geocoding result is missing longitude")
	case r.Name == nil || *r.Name == "":
		return models.Location{}, errors.New("geocoding result is missing name")
	case r.Country == nil:
		return models.Location{}, errors.New("geocoding result is missing country")
	}

	return models.Location{
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
		Name:      *r.Name,
		Country:   *r.Country,
		Timezone:  r.Timezone,
	}, nil
}
