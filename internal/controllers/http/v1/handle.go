package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"forecastx/internal/chart"
	"forecastx/internal/models"
	"forecastx/internal/services/weather"
)

// ForecastResponse is a ForecastResult plus the message shown to the user when it is not found.
type ForecastResponse struct {
	models.ForecastResult
	Message string `json:"message,omitempty" example:"City 'Atlantis' not found"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: city"`
}

var errMissingCity = ErrorResponse{Error: "Missing required parameter: city"}

func statusFor(result models.ForecastResult) int {
	switch result.Kind {
	case models.KindFound:
		return fiber.StatusOK
	case models.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadGateway
	}
}

// GetForecast godoc
// @Summary Get forecast for a city
// @Description Resolves the city through the geocoding service and returns current conditions plus the next 24 hourly points
// @Tags Forecast
// @Produce json
// @Param city query string true "City name" example(London)
// @Success 200 {object} ForecastResponse "City found"
// @Failure 400 {object} ErrorResponse "Missing city"
// @Failure 404 {object} ForecastResponse "City not found"
// @Failure 502 {object} ForecastResponse "Geocoding or forecast service failed"
// @Router /api/v1/forecast [get]
// @Example {curl} Example usage:
//
//	curl -X GET "http://localhost:8080/api/v1/forecast?city=London"
func (r *routes) handleForecastCall(c *fiber.Ctx) error {
	city := c.Query("city")
	if weather.IsBlank(city) {
		return c.Status(fiber.StatusBadRequest).JSON(errMissingCity)
	}

	result, _ := r.pipeline.Run(c.UserContext(), city)

	return c.Status(statusFor(result)).JSON(ForecastResponse{
		ForecastResult: result,
		Message:        result.Message(),
	})
}

// GetForecastChart godoc
// @Summary Get the 24 hour chart for a city
// @Description Temperature as a filled area and precipitation as bars; an empty chart when the city has no forecast
// @Tags Forecast
// @Produce png
// @Param city query string true "City name" example(London)
// @Param width query integer false "Image width in pixels" minimum(200) maximum(2000) example(800)
// @Param height query integer false "Image height in pixels" minimum(150) maximum(1500) example(400)
// @Success 200 {file} binary "PNG image"
// @Failure 400 {object} ErrorResponse "Missing city"
// @Failure 500 {object} ErrorResponse "Chart could not be rendered"
// @Router /api/v1/forecast/chart.png [get]
func (r *routes) handleChartCall(c *fiber.Ctx) error {
	city := c.Query("city")
	if weather.IsBlank(city) {
		return c.Status(fiber.StatusBadRequest).JSON(errMissingCity)
	}

	opts := chart.Options{
		Width:  clamp(c.QueryInt("width", chart.DefaultWidth), 200, 2000),
		Height: clamp(c.QueryInt("height", chart.DefaultHeight), 150, 1500),
	}

	result, _ := r.pipeline.Run(c.UserContext(), city)

	png, err := renderChart(result, opts)
	if err != nil {
		r.l.Error(err, map[string]any{
			"city": city,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to render chart",
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}

// GetDashboard godoc
// @Summary Get the dashboard state
// @Description Returns what the caller's dashboard session currently shows: the latest request id, its pipeline state and result. Without a session cookie the view is idle.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dashboard.View
// @Router /api/v1/dashboard [get]
func (r *routes) handleDashboardCall(c *fiber.Ctx) error {
	return c.JSON(r.dashboard.Current(c.Cookies(sessionCookie)))
}

func renderChart(result models.ForecastResult, opts chart.Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := chart.RenderResult(&buf, result, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
