package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/temperature-analysis/internal/weather"
)

const openMeteoBaseURL = "https://api.open-meteo.com"

// OpenMeteoProvider implements weather.CurrentProvider for Open-Meteo.
// Open-Meteo needs no API key, so the caller's key is ignored.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, baseURL string, maxRetries int) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = openMeteoBaseURL
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      maxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) CurrentTemperature(ctx context.Context, coords weather.Coordinates, _ string) (weather.CurrentReading, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
		values.Set("current_weather", "true")

		u := fmt.Sprintf("%s/v1/forecast?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CurrentReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			Time        string  `json:"time"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentReading{}, weather.Unavailable(p.name, fmt.Errorf("decode response: %w", err))
	}

	// Open-Meteo reports local ISO time without zone, e.g. 2024-01-01T12:00.
	ts, err := time.Parse("2006-01-02T15:04", payload.CurrentWeather.Time)
	if err != nil {
		ts = time.Now().UTC()
	}

	return weather.CurrentReading{
		Coordinates:  coords,
		TemperatureC: payload.CurrentWeather.Temperature,
		Provider:     p.name,
		Timestamp:    ts.UTC(),
	}, nil
}
