package models

import "fmt"

// Location is the best geocoding match for a user-entered city.
type Location struct {
	Latitude  float64 `json:"latitude" example:"51.50853"`
	Longitude float64 `json:"longitude" example:"-0.12574"`
	Name      string  `json:"name" example:"London"`
	Country   string  `json:"country" example:"United Kingdom"`
	Timezone  string  `json:"timezone,omitempty" example:"Europe/London"`
}

// DisplayName is the "Name, Country" label shown on the dashboard.
func (l Location) DisplayName() string {
	if l.Country == "" {
		return l.Name
	}
	return fmt.Sprintf("%s, %s", l.Name, l.Country)
}

func (l Location) RequestParams() string {
	return fmt.Sprintf("lat: %.4f lon: %.4f", l.Latitude, l.Longitude)
}
