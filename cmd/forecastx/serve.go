package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	v1 "forecastx/internal/controllers/http/v1"
	"forecastx/internal/services/dashboard"
	"forecastx/pkg/httpserver"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd)
		},
	}
}

func serve(cmd *cobra.Command) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApplication(cmd, "", os.Stdout)
	if err != nil {
		return err
	}
	defer a.close()

	cnf := a.cfg

	app := httpserver.InitFiberServer(httpserver.Options{
		AppName:      cnf.App.Name,
		ReadTimeout:  time.Duration(cnf.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cnf.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cnf.Server.IdleTimeout) * time.Second,
	}, a.telemetry)

	v1.NewRouter(
		app,
		a.pipeline,
		dashboard.NewController(a.pipeline, a.l),
		cnf.Dashboard.DefaultCity,
		a.l,
	)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(":" + cnf.Server.Port)
	}()

	a.l.Info("application started successfully", map[string]any{
		"port":         cnf.Server.Port,
		"env":          cnf.App.Env,
		"version":      cnf.App.Version,
		"default_city": cnf.Dashboard.DefaultCity,
		"sentry":       a.sentry.Enabled(),
		"appinsights":  a.telemetry.Enabled(),
	})

	select {
	case err := <-listenErr:
		if err != nil {
			a.l.Error(err, map[string]any{"port": cnf.Server.Port})
		}
		return err
	case <-ctx.Done():
		a.l.Warning("stopping application services")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return app.ShutdownWithContext(shutdownCtx)
}
