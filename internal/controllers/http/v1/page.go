package http

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"forecastx/internal/chart"
	"forecastx/internal/services/dashboard"
	"forecastx/internal/services/weather"
)

// sessionCookie scopes "latest query wins" to one browser.
const sessionCookie = "forecastx_session"

//go:embed templates/dashboard.html
var dashboardHTML string

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

type card struct {
	Label string
	Value string
}

type dashboardPage struct {
	City      string
	State     weather.State
	RequestID uint64
	Location  string
	Message   string
	Cards     []card
	Chart     template.URL
}

func newDashboardPage(view dashboard.View, chartPNG []byte) dashboardPage {
	page := dashboardPage{
		City:      view.City,
		State:     view.State,
		RequestID: view.RequestID,
		Message:   view.Message,
	}
	if len(chartPNG) > 0 {
		page.Chart = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(chartPNG))
	}

	result := view.Result
	if result == nil || !result.IsFound() {
		return page
	}

	page.Location = result.Location.DisplayName()
	page.Cards = []card{
		{Label: "Temperature", Value: fmt.Sprintf("%.1f °C", result.Current.TemperatureC)},
		{Label: "Humidity", Value: fmt.Sprintf("%.0f %%", result.Current.HumidityPct)},
		{Label: "Precipitation", Value: fmt.Sprintf("%.1f mm", result.Current.PrecipitationMm)},
		{Label: "Wind Speed", Value: fmt.Sprintf("%.1f km/h", result.Current.WindKph)},
		{Label: "Location", Value: page.Location},
	}
	return page
}

// session returns the caller's dashboard session id, issuing a cookie on first visit.
func session(c *fiber.Ctx) string {
	if id := c.Cookies(sessionCookie); id != "" {
		return id
	}

	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(dashboard.SessionTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id
}

// handleDashboardPage serves the single-page dashboard. A request without a city query is
// the initial load and shows the default city; an explicitly blank city shows the idle page.
// The page always shows the request's own result, even when a newer request of the same
// session has already replaced it on the dashboard.
func (r *routes) handleDashboardPage(c *fiber.Ctx) error {
	city := c.Query("city")
	if !c.Context().QueryArgs().Has("city") {
		city = r.defaultCity
	}

	view, applied := r.dashboard.Submit(c.UserContext(), session(c), city)
	if !applied {
		r.l.Debug("dashboard request superseded", map[string]any{
			"city":       city,
			"request_id": view.RequestID,
		})
	}

	var chartPNG []byte
	if view.Result != nil {
		png, err := renderChart(*view.Result, chart.Options{})
		if err != nil {
			r.l.Error(err, map[string]any{
				"city":   view.City,
				"run_id": view.RunID,
			})
		}
		chartPNG = png
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, newDashboardPage(view, chartPNG)); err != nil {
		r.l.Error(errors.Wrap(err, "failed to render dashboard page"), map[string]any{
			"city": view.City,
		})
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to render dashboard")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
