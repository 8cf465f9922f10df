package providers

import (
	"context"
	"errors"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/temperature-analysis/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder with the Google Maps geocoding API.
// The geocoder package keeps its key in a package variable, so calls are serialized.
type GoogleGeocoder struct {
	name   string
	apiKey string
	mu     sync.Mutex
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		name:   "google",
		apiKey: apiKey,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

// Geocode ignores the OpenWeather key; it always uses the configured Google key.
func (g *GoogleGeocoder) Geocode(ctx context.Context, city, _ string) (weather.Coordinates, error) {
	if g.apiKey == "" {
		return weather.Coordinates{}, weather.Unavailable(g.name, errors.New("google geocoder api key is not configured"))
	}
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, weather.Unavailable(g.name, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	geocoder.ApiKey = g.apiKey
	loc, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return weather.Coordinates{}, weather.Unavailable(g.name, err)
	}

	return weather.Coordinates{
		Name: city,
		Lat:  loc.Latitude,
		Lon:  loc.Longitude,
	}, nil
}
