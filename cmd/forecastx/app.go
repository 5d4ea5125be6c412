package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"forecastx/config"
	"forecastx/internal/repositories"
	"forecastx/internal/services/weather"
	"forecastx/pkg/logger"
	"forecastx/pkg/observe"
)

// application is everything both commands share: config, logging, error reporting and the pipeline.
type application struct {
	cfg       *config.Config
	l         *logger.Logger
	sentry    *observe.SentryHook
	telemetry *observe.Telemetry
	pipeline  *weather.Pipeline
}

func newApplication(cmd *cobra.Command, logLevel string, logOut io.Writer) (*application, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cnf, err := config.NewConfigFromPath(configPath)
	if err != nil {
		return nil, err
	}

	if logLevel == "" {
		logLevel = cnf.Log.Level
	}

	hook := observe.NewSentryHook(cnf.App.Env, cnf.App.Name, 0, cnf.IsDevelopment(), cnf.Observe.SentryDSN)

	l := logger.NewZapLoggerWithOptions(logger.Options{
		AppName: cnf.App.Name,
		AppEnv:  cnf.App.Env,
		Level:   logLevel,
		Format:  cnf.Log.Format,
	}, logOut, hook)

	telemetry := observe.NewTelemetry(cnf.Observe.AppInsightsKey, cnf.App.Name)

	repos := repositories.InitWeatherRepositories(cnf, l, telemetry)

	return &application{
		cfg:       cnf,
		l:         l,
		sentry:    hook,
		telemetry: telemetry,
		pipeline:  weather.NewPipeline(repos, cnf.Dashboard.HourlyWindow, l),
	}, nil
}

func (a *application) close() {
	a.telemetry.Close(5 * time.Second)
	a.sentry.Flush()
	_ = a.l.Stop()
}
