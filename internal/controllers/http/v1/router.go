package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "forecastx/docs"
	"forecastx/internal/services/dashboard"
	"forecastx/internal/services/weather"
	"forecastx/pkg/logger"
)

type routes struct {
	pipeline    *weather.Pipeline
	dashboard   *dashboard.Controller
	defaultCity string
	l           *logger.Logger
}

func NewRouter(
	app *fiber.App,
	pipeline *weather.Pipeline,
	controller *dashboard.Controller,
	defaultCity string,
	l *logger.Logger,
) {
	r := &routes{
		pipeline:    pipeline,
		dashboard:   controller,
		defaultCity: defaultCity,
		l:           l,
	}

	// Swagger documentation, served from the swag registry filled by the docs package
	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	app.Get("/", r.handleDashboardPage)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/forecast", r.handleForecastCall)
	api.Get("/forecast/chart.png", r.handleChartCall)
	api.Get("/dashboard", r.handleDashboardCall)
}
