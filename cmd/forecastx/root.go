package main

import (
	"github.com/spf13/cobra"

	"forecastx/config"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "forecastx",
		Short: "City weather dashboard",
		Long:  "Resolves a city through Open-Meteo geocoding and shows its current conditions and the next 24 hours",
		// errors are printed once by main
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().String("config", config.DefaultConfigPath, "Path to the YAML config file")

	rootCmd.AddCommand(newServeCmd(), newLookupCmd())

	return rootCmd
}
