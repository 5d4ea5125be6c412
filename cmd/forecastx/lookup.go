package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"forecastx/internal/chart"
	"forecastx/internal/models"
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [city]",
		Short: "Print current conditions and the next 24 hours for a city",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			chartPath, _ := cmd.Flags().GetString("chart")
			verbose, _ := cmd.Flags().GetBool("verbose")

			// "New York" may arrive unquoted as two args
			return lookup(cmd, strings.Join(args, " "), output, chartPath, verbose)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
	cmd.Flags().String("chart", "", "Also write the 24 hour chart as PNG to this file")
	cmd.Flags().BoolP("verbose", "v", false, "Log pipeline progress to stderr")

	return cmd
}

func lookup(cmd *cobra.Command, city, output, chartPath string, verbose bool) error {
	if output != "text" && output != "json" {
		return errors.Errorf("unknown output format %q, want text or json", output)
	}

	logLevel := "error"
	if verbose {
		logLevel = "debug"
	}

	a, err := newApplication(cmd, logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	result, ok := a.pipeline.Run(cmd.Context(), city)
	if !ok {
		return errors.New("city must not be blank")
	}

	out := cmd.OutOrStdout()
	if output == "json" {
		err = writeJSON(out, result)
	} else {
		err = writeText(out, result)
	}
	if err != nil {
		return err
	}

	if chartPath != "" {
		if err := writeChart(chartPath, result); err != nil {
			return err
		}
	}

	if !result.IsFound() {
		return errors.New(result.Message())
	}
	return nil
}

func writeJSON(w io.Writer, result models.ForecastResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		models.ForecastResult
		Message string `json:"message,omitempty"`
	}{result, result.Message()})
}

func writeText(w io.Writer, result models.ForecastResult) error {
	if !result.IsFound() {
		// the message goes out once, as the command error
		return nil
	}

	c := result.Current
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", result.Location.DisplayName())
	fmt.Fprintf(&b, "  Temperature:   %.1f °C\n", c.TemperatureC)
	fmt.Fprintf(&b, "  Humidity:      %.0f %%\n", c.HumidityPct)
	fmt.Fprintf(&b, "  Precipitation: %.1f mm\n", c.PrecipitationMm)
	fmt.Fprintf(&b, "  Wind speed:    %.1f km/h\n", c.WindKph)
	fmt.Fprintf(&b, "\nNext %d hours:\n", len(result.Hourly))
	for _, p := range result.Hourly {
		fmt.Fprintf(&b, "  %s  %6.1f °C  %5.1f mm\n", p.Time.Format("Mon 15:04"), p.TemperatureC, p.PrecipitationMm)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeChart(path string, result models.ForecastResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create chart file")
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "failed to write chart file")
		}
	}()

	return chart.RenderResult(f, result, chart.Options{})
}
