package http

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecastx/internal/models"
	"forecastx/internal/repositories"
	"forecastx/internal/services/dashboard"
	"forecastx/internal/services/weather"
	"forecastx/internal/testutil"
	"forecastx/pkg/httpserver"
	"forecastx/pkg/logger"
)

func testApp(t *testing.T) (*fiber.App, *testutil.FakeOpenMeteo) {
	t.Helper()
	return testAppWithLogger(t, logger.NewNop())
}

func testAppWithLogger(t *testing.T, l *logger.Logger) (*fiber.App, *testutil.FakeOpenMeteo) {
	t.Helper()

	fake := testutil.NewFakeOpenMeteo(t)
	client := fake.Server.Client()

	pipeline := weather.NewPipeline(repositories.WeatherRepositories{
		Geocoding: repositories.NewGeocodingRepository(fake.GeocodingURL(), l, client, nil),
		Forecast:  repositories.NewOpenMeteoRepository(fake.ForecastURL(), l, client, nil),
	}, models.MaxHourlyPoints, l)

	app := httpserver.InitFiberServer(httpserver.Options{AppName: "forecastx-test"}, nil)
	NewRouter(app, pipeline, dashboard.NewController(pipeline, l), "London", l)

	return app, fake
}

func get(t *testing.T, app *fiber.App, target string) (int, []byte, string) {
	t.Helper()
	return getAs(t, app, target, "")
}

// getAs sends the request inside the dashboard session sessionID.
func getAs(t *testing.T, app *fiber.App, target, sessionID string) (int, []byte, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, target, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sessionID})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body, resp.Header.Get(fiber.HeaderContentType)
}

func forecastURL(city string) string {
	return "/api/v1/forecast?city=" + url.QueryEscape(city)
}

func TestHandleForecastCall(t *testing.T) {
	tests := []struct {
		name       string
		city       string
		setup      func(*testutil.FakeOpenMeteo)
		wantStatus int
		wantKind   models.ResultKind
		wantMsg    string
	}{
		{
			name:       "found",
			city:       "London",
			wantStatus: fiber.StatusOK,
			wantKind:   models.KindFound,
		},
		{
			name:       "not found",
			city:       "Zzzznotacity",
			wantStatus: fiber.StatusNotFound,
			wantKind:   models.KindNotFound,
			wantMsg:    "City 'Zzzznotacity' not found",
		},
		{
			name:       "geocoding down",
			city:       "London",
			setup:      func(f *testutil.FakeOpenMeteo) { f.DropGeocoding() },
			wantStatus: fiber.StatusBadGateway,
			wantKind:   models.KindUpstreamError,
			wantMsg:    "Could not look up 'London': location service unavailable",
		},
		{
			name:       "forecast down",
			city:       "London",
			setup:      func(f *testutil.FakeOpenMeteo) { f.SetForecastStatus(fiber.StatusInternalServerError) },
			wantStatus: fiber.StatusBadGateway,
			wantKind:   models.KindUpstreamError,
			wantMsg:    "Found 'London, United Kingdom' but the forecast service is unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, fake := testApp(t)
			if tt.setup != nil {
				tt.setup(fake)
			}

			status, body, contentType := get(t, app, forecastURL(tt.city))

			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, contentType, fiber.MIMEApplicationJSON)

			var response ForecastResponse
			require.NoError(t, json.Unmarshal(body, &response))
			assert.Equal(t, tt.wantKind, response.Kind)
			assert.Equal(t, tt.wantMsg, response.Message)
			assert.NotContains(t, string(body), "cause")
		})
	}
}

func TestHandleForecastCall_FoundPayload(t *testing.T) {
	app, _ := testApp(t)

	_, body, _ := get(t, app, forecastURL("London"))

	var response ForecastResponse
	require.NoError(t, json.Unmarshal(body, &response))
	require.NotNil(t, response.Location)
	assert.Equal(t, "United Kingdom", response.Location.Country)
	require.NotNil(t, response.Current)
	assert.Equal(t, 21.3, response.Current.TemperatureC)
	assert.Len(t, response.Hourly, 24)
}

func TestHandleForecastCall_MissingCity(t *testing.T) {
	app, fake := testApp(t)

	for _, target := range []string{"/api/v1/forecast", forecastURL("   ")} {
		status, body, _ := get(t, app, target)
		assert.Equal(t, fiber.StatusBadRequest, status)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "Missing required parameter: city", response.Error)
	}
	assert.Equal(t, int32(0), fake.GeocodingCalls.Load())
}

func TestHandleChartCall(t *testing.T) {
	app, _ := testApp(t)

	for _, city := range []string{"London", "Zzzznotacity"} {
		status, body, contentType := get(t, app, "/api/v1/forecast/chart.png?width=400&height=10&city="+city)
		require.Equal(t, fiber.StatusOK, status, city)
		assert.Equal(t, "image/png", contentType)

		img, err := png.Decode(bytes.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, 400, img.Bounds().Dx())
		assert.Equal(t, 150, img.Bounds().Dy())
	}
}

func TestHandleChartCall_MissingCity(t *testing.T) {
	app, _ := testApp(t)

	status, _, _ := get(t, app, "/api/v1/forecast/chart.png")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleDashboardPage_InitialLoadUsesDefaultCity(t *testing.T) {
	app, fake := testApp(t)

	status, body, contentType := get(t, app, "/")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, contentType, "text/html")
	page := string(body)
	assert.Contains(t, page, `data-state="ready"`)
	assert.Contains(t, page, "London, United Kingdom")
	assert.Contains(t, page, "21.3 °C")
	assert.Contains(t, page, "12.4 km/h")
	assert.Contains(t, page, "data:image/png;base64,")
	assert.Equal(t, "London", fake.LastGeocoding.Load().(url.Values).Get("name"))
}

func TestHandleDashboardPage_BlankCityIsIdle(t *testing.T) {
	app, fake := testApp(t)

	status, body, _ := get(t, app, "/?city=")

	assert.Equal(t, fiber.StatusOK, status)
	page := string(body)
	assert.Contains(t, page, `data-state="idle"`)
	assert.Contains(t, page, "Enter a city to see")
	assert.NotContains(t, page, "data:image/png")
	assert.Equal(t, int32(0), fake.GeocodingCalls.Load())
}

func TestHandleDashboardPage_NotFound(t *testing.T) {
	app, _ := testApp(t)

	status, body, _ := get(t, app, "/?city=Zzzznotacity")

	assert.Equal(t, fiber.StatusOK, status)
	page := string(body)
	assert.Contains(t, page, `data-state="failed"`)
	assert.Contains(t, page, "City &#39;Zzzznotacity&#39; not found")
	// the empty chart is still drawn
	assert.Contains(t, page, "data:image/png;base64,")
}

func TestHandleDashboardCall(t *testing.T) {
	app, _ := testApp(t)

	_, body, _ := getAs(t, app, "/api/v1/dashboard", "alice")
	var view dashboard.View
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, weather.StateIdle, view.State)

	getAs(t, app, "/?city=Berlin", "alice")

	status, body, _ := getAs(t, app, "/api/v1/dashboard", "alice")
	assert.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, uint64(1), view.RequestID)
	assert.Equal(t, weather.StateReady, view.State)
	assert.Equal(t, "Berlin", view.City)
	require.NotNil(t, view.Result)
	assert.Equal(t, "Germany", view.Result.Location.Country)

	// another browser has its own dashboard
	_, body, _ = getAs(t, app, "/api/v1/dashboard", "bob")
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, weather.StateIdle, view.State)
}

func TestHandleDashboardPage_IssuesSessionCookie(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/?city=", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var issued *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			issued = c
		}
	}
	require.NotNil(t, issued)
	assert.NotEmpty(t, issued.Value)
	assert.True(t, issued.HttpOnly)

	req := httptest.NewRequest(fiber.MethodGet, "/?city=", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "alice"})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Empty(t, resp.Header.Get(fiber.HeaderSetCookie))
}

type pageResult struct {
	status int
	body   string
}

func TestHandleDashboardPage_ConcurrentVisitors(t *testing.T) {
	var logs bytes.Buffer
	app, fake := testAppWithLogger(t, logger.NewZapLogger("test", &logs))
	fake.SetForecastDelay(300 * time.Millisecond)

	berlin := make(chan pageResult, 1)
	go func() {
		status, body, _ := getAs(t, app, "/?city=Berlin", "alice")
		berlin <- pageResult{status, string(body)}
	}()

	time.Sleep(100 * time.Millisecond)
	status, body, _ := getAs(t, app, "/?city=London", "bob")
	london := pageResult{status, string(body)}
	alice := <-berlin

	assert.Equal(t, fiber.StatusOK, alice.status)
	assert.Contains(t, alice.body, `data-state="ready"`)
	assert.Contains(t, alice.body, "Berlin, Germany")
	assert.NotContains(t, alice.body, "London")

	assert.Equal(t, fiber.StatusOK, london.status)
	assert.Contains(t, london.body, `data-state="ready"`)
	assert.Contains(t, london.body, "London, United Kingdom")

	assert.NotContains(t, logs.String(), `"level":"error"`)
}

func TestHandleDashboardPage_SupersededRequestShowsItsOwnCity(t *testing.T) {
	var logs bytes.Buffer
	app, fake := testAppWithLogger(t, logger.NewZapLogger("test", &logs))
	fake.SetForecastDelay(300 * time.Millisecond)

	berlin := make(chan pageResult, 1)
	go func() {
		status, body, _ := getAs(t, app, "/?city=Berlin", "alice")
		berlin <- pageResult{status, string(body)}
	}()

	time.Sleep(100 * time.Millisecond)
	_, body, _ := getAs(t, app, "/?city=London", "alice")
	stale := <-berlin

	assert.Contains(t, string(body), "London, United Kingdom")

	assert.Equal(t, fiber.StatusOK, stale.status)
	assert.Contains(t, stale.body, "Berlin")
	assert.NotContains(t, stale.body, `data-state="resolving"`)
	assert.NotContains(t, stale.body, "London")

	_, body, _ = getAs(t, app, "/api/v1/dashboard", "alice")
	var view dashboard.View
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, "London", view.City)
	assert.Equal(t, uint64(2), view.RequestID)

	assert.NotContains(t, logs.String(), `"level":"error"`)
}

func TestSwaggerDoc(t *testing.T) {
	app, _ := testApp(t)

	status, body, _ := get(t, app, "/swagger/doc.json")

	assert.Equal(t, fiber.StatusOK, status)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Contains(t, doc["paths"], "/api/v1/forecast")
}
