package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/temperature-analysis/internal/weather"
)

const openWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider implements weather.Geocoder and weather.CurrentProvider
// on top of the OpenWeatherMap geocoding and current weather APIs.
type OpenWeatherProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a provider. maxRetries of zero keeps every
// call single-shot. An empty baseURL selects the public API.
func NewOpenWeatherProvider(client *http.Client, baseURL string, maxRetries int) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = openWeatherBaseURL
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      maxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Geocode resolves city with the direct geocoding endpoint, keeping the first match.
func (p *OpenWeatherProvider) Geocode(ctx context.Context, city, apiKey string) (weather.Coordinates, error) {
	if apiKey == "" {
		return weather.Coordinates{}, weather.Unavailable(p.name, errors.New("openweather api key is not configured"))
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("limit", "1")
	values.Set("appid", apiKey)

	var payload []struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := p.getJSON(ctx, "/geo/1.0/direct", values, &payload); err != nil {
		return weather.Coordinates{}, err
	}

	if len(payload) == 0 {
		return weather.Coordinates{}, &weather.ExternalServiceError{
			Provider: p.name,
			Kind:     weather.FailureUnavailable,
			Message:  fmt.Sprintf("no geocoding result for %q", city),
		}
	}

	first := payload[0]
	return weather.Coordinates{
		Name:    first.Name,
		Country: first.Country,
		Lat:     first.Lat,
		Lon:     first.Lon,
	}, nil
}

// CurrentTemperature returns the current temperature in Celsius at coords.
func (p *OpenWeatherProvider) CurrentTemperature(ctx context.Context, coords weather.Coordinates, apiKey string) (weather.CurrentReading, error) {
	if apiKey == "" {
		return weather.CurrentReading{}, weather.Unavailable(p.name, errors.New("openweather api key is not configured"))
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("appid", apiKey)
	values.Set("units", "metric")

	var payload struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
	}
	if err := p.getJSON(ctx, "/data/2.5/weather", values, &payload); err != nil {
		return weather.CurrentReading{}, err
	}

	if payload.Main.Temp == nil {
		return weather.CurrentReading{}, &weather.ExternalServiceError{
			Provider: p.name,
			Kind:     weather.FailureUnavailable,
			Message:  "response has no temperature",
		}
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	return weather.CurrentReading{
		Coordinates:  coords,
		TemperatureC: *payload.Main.Temp,
		Provider:     p.name,
		Timestamp:    ts,
	}, nil
}

func (p *OpenWeatherProvider) getJSON(ctx context.Context, path string, values url.Values, dst interface{}) error {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return weather.Unavailable(p.name, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
