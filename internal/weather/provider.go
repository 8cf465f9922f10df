package weather

import (
	"context"
)

// Geocoder resolves a city name to coordinates.
// apiKey is the caller's key for providers that need one per request.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, city, apiKey string) (Coordinates, error)
}

// CurrentProvider fetches the current temperature at a position, in Celsius.
type CurrentProvider interface {
	Name() string
	CurrentTemperature(ctx context.Context, coords Coordinates, apiKey string) (CurrentReading, error)
}

// CoordinatesStore is the contract of the geocoding caches (memory or Redis).
type CoordinatesStore interface {
	SaveCoordinates(ctx context.Context, city string, coords Coordinates) error
	GetCoordinates(ctx context.Context, city string) (Coordinates, error)
}
