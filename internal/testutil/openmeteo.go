// Package testutil provides an in-process Open-Meteo stand-in for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type Place struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	Timezone  string
}

var London = Place{Name: "London", Country: "United Kingdom", Latitude: 51.50853, Longitude: -0.12574, Timezone: "Europe/London"}

var Berlin = Place{Name: "Berlin", Country: "Germany", Latitude: 52.52437, Longitude: 13.41053, Timezone: "Europe/Berlin"}

// HourlyStart is the first hourly timestamp served by the fake.
var HourlyStart = time.Date(2025, 7, 25, 0, 0, 0, 0, time.UTC)

// FakeOpenMeteo serves /v1/search and /v1/forecast.
type FakeOpenMeteo struct {
	Server *httptest.Server

	mu             sync.Mutex
	places         map[string]Place
	hours          int
	forecastBody   string
	geocodingBody  string
	dropForecast   bool
	dropGeocoding  bool
	forecastStatus int
	forecastDelay  time.Duration

	GeocodingCalls atomic.Int32
	ForecastCalls  atomic.Int32
	LastGeocoding  atomic.Value
	LastForecast   atomic.Value
}

func NewFakeOpenMeteo(t *testing.T) *FakeOpenMeteo {
	t.Helper()

	f := &FakeOpenMeteo{
		places: map[string]Place{
			"london": London,
			"berlin": Berlin,
		},
		hours: 48,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", f.handleSearch)
	mux.HandleFunc("/v1/forecast", f.handleForecast)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)

	return f
}

func (f *FakeOpenMeteo) GeocodingURL() string {
	return f.Server.URL + "/v1/search"
}

func (f *FakeOpenMeteo) ForecastURL() string {
	return f.Server.URL + "/v1/forecast"
}

func (f *FakeOpenMeteo) AddPlace(key string, p Place) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.places[strings.ToLower(key)] = p
}

func (f *FakeOpenMeteo) SetHours(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hours = n
}

// SetForecastBody makes /v1/forecast answer 200 with a fixed body.
func (f *FakeOpenMeteo) SetForecastBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forecastBody = body
}

// SetGeocodingBody makes /v1/search answer 200 with a fixed body.
func (f *FakeOpenMeteo) SetGeocodingBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geocodingBody = body
}

func (f *FakeOpenMeteo) SetForecastStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forecastStatus = status
}

// DropForecast closes forecast connections without a response, like a network failure.
func (f *FakeOpenMeteo) DropForecast() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropForecast = true
}

func (f *FakeOpenMeteo) DropGeocoding() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropGeocoding = true
}

func (f *FakeOpenMeteo) SetForecastDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forecastDelay = d
}

func (f *FakeOpenMeteo) handleSearch(w http.ResponseWriter, r *http.Request) {
	f.GeocodingCalls.Add(1)
	f.LastGeocoding.Store(r.URL.Query())

	f.mu.Lock()
	drop, body := f.dropGeocoding, f.geocodingBody
	place, ok := f.places[strings.ToLower(r.URL.Query().Get("name"))]
	f.mu.Unlock()

	if drop {
		dropConnection(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if body != "" {
		fmt.Fprint(w, body)
		return
	}
	if !ok {
		fmt.Fprint(w, `{"generationtime_ms":0.42}`)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"results": []map[string]any{{
			"id":        2643743,
			"name":      place.Name,
			"latitude":  place.Latitude,
			"longitude": place.Longitude,
			"country":   place.Country,
			"timezone":  place.Timezone,
		}},
		"generationtime_ms": 0.5,
	})
}

func (f *FakeOpenMeteo) handleForecast(w http.ResponseWriter, r *http.Request) {
	f.ForecastCalls.Add(1)
	f.LastForecast.Store(r.URL.Query())

	f.mu.Lock()
	drop, body, status, hours, delay := f.dropForecast, f.forecastBody, f.forecastStatus, f.hours, f.forecastDelay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if drop {
		dropConnection(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		fmt.Fprint(w, `{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`)
		return
	}
	if body != "" {
		fmt.Fprint(w, body)
		return
	}
	fmt.Fprint(w, ForecastJSON(hours))
}

func dropConnection(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("response writer does not support hijacking")
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic(err)
	}
	_ = conn.Close()
}

// HourlyTemperature is the temperature the fake serves for hour i.
func HourlyTemperature(i int) float64 {
	return 10 + float64(i)*0.5
}

// HourlyPrecipitation is the precipitation the fake serves for hour i.
func HourlyPrecipitation(i int) float64 {
	return float64(i%3) * 0.2
}

// ForecastJSON renders a well-formed forecast body with the given number of hourly entries.
func ForecastJSON(hours int) string {
	return ForecastJSONWithNull(hours, -1)
}

// ForecastJSONWithNull is ForecastJSON with the precipitation at hour nullAt sent as null.
func ForecastJSONWithNull(hours, nullAt int) string {
	times := make([]string, hours)
	temps := make([]float64, hours)
	humidity := make([]float64, hours)
	precip := make([]*float64, hours)
	for i := 0; i < hours; i++ {
		times[i] = HourlyStart.Add(time.Duration(i) * time.Hour).Format("2006-01-02T15:04")
		temps[i] = HourlyTemperature(i)
		humidity[i] = 70
		if i != nullAt {
			v := HourlyPrecipitation(i)
			precip[i] = &v
		}
	}

	body, _ := json.Marshal(map[string]any{
		"latitude":              51.5,
		"longitude":             -0.120000124,
		"utc_offset_seconds":    0,
		"timezone":              "GMT",
		"timezone_abbreviation": "GMT",
		"current": map[string]any{
			"time":                 "2025-07-25T14:00",
			"interval":             900,
			"temperature_2m":       21.3,
			"relative_humidity_2m": 55,
			"precipitation":        0.1,
			"wind_speed_10m":       12.4,
		},
		"hourly": map[string]any{
			"time":                 times,
			"temperature_2m":       temps,
			"relative_humidity_2m": humidity,
			"precipitation":        precip,
		},
	})
	return string(body)
}
