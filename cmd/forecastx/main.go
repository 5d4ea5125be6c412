package main

import (
	"fmt"
	"os"
)

// @title ForecastX API
// @version 1.0.0
// @description City lookup and 24 hour forecast dashboard backed by Open-Meteo.
// @description A city name is resolved through the geocoding API, then current conditions and the hourly forecast are fetched for it.

// @contact.name ForecastX Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Forecast
// @tag.description City lookup and forecast retrieval
// @tag.name Dashboard
// @tag.description State of the single-page dashboard
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
