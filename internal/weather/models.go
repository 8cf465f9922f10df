package weather

import (
	"time"
)

// Coordinates is a geocoded position for a city.
type Coordinates struct {
	Name    string  `json:"name"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentReading is the live temperature observed at a city.
type CurrentReading struct {
	City         string      `json:"city"`
	Coordinates  Coordinates `json:"coordinates"`
	TemperatureC float64     `json:"temperatureC"`
	Provider     string      `json:"provider"`
	Timestamp    time.Time   `json:"timestamp"` // always UTC
}
