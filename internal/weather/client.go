package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RequestRecorder receives the outcome of every outbound provider call.
type RequestRecorder interface {
	RecordWeatherRequest(provider, outcome string)
}

// Client resolves a city and fetches its current temperature.
// Geocoders are tried in order; the first success wins.
type Client struct {
	geocoders []Geocoder
	current   CurrentProvider
	cache     CoordinatesStore
	recorder  RequestRecorder
	log       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache makes the client consult and fill a coordinates cache.
func WithCache(store CoordinatesStore) Option {
	return func(c *Client) {
		c.cache = store
	}
}

// WithRecorder reports provider call outcomes.
func WithRecorder(r RequestRecorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Client.
func NewClient(current CurrentProvider, geocoders []Geocoder, opts ...Option) *Client {
	c := &Client{
		geocoders: geocoders,
		current:   current,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentTemperature geocodes city (or reuses cached coordinates) and returns
// the live temperature there.
func (c *Client) CurrentTemperature(ctx context.Context, city, apiKey string) (CurrentReading, error) {
	coords, err := c.resolve(ctx, city, apiKey)
	if err != nil {
		return CurrentReading{}, err
	}

	reading, err := c.current.CurrentTemperature(ctx, coords, apiKey)
	c.record(c.current.Name(), err)
	if err != nil {
		c.log.Warn().Err(err).Str("city", city).Str("provider", c.current.Name()).Msg("current temperature fetch failed")
		return CurrentReading{}, err
	}

	reading.City = city
	reading.Coordinates = coords
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now().UTC()
	}
	return reading, nil
}

// RefreshCoordinates geocodes city bypassing the cache and stores the result.
func (c *Client) RefreshCoordinates(ctx context.Context, city, apiKey string) (Coordinates, error) {
	coords, err := c.geocode(ctx, city, apiKey)
	if err != nil {
		return Coordinates{}, err
	}
	c.save(ctx, city, coords)
	return coords, nil
}

func (c *Client) resolve(ctx context.Context, city, apiKey string) (Coordinates, error) {
	if c.cache != nil {
		coords, err := c.cache.GetCoordinates(ctx, city)
		if err == nil {
			c.log.Debug().Str("city", city).Msg("coordinates cache hit")
			return coords, nil
		}
	}
	return c.RefreshCoordinates(ctx, city, apiKey)
}

func (c *Client) geocode(ctx context.Context, city, apiKey string) (Coordinates, error) {
	if len(c.geocoders) == 0 {
		return Coordinates{}, Unavailable("geocoder", errors.New("no geocoders configured"))
	}

	var lastErr error
	for _, g := range c.geocoders {
		coords, err := g.Geocode(ctx, city, apiKey)
		c.record(g.Name(), err)
		if err == nil {
			return coords, nil
		}

		c.log.Warn().Err(err).Str("city", city).Str("provider", g.Name()).Msg("geocoding failed")
		if IsInvalidAPIKey(err) {
			return Coordinates{}, err
		}
		lastErr = err
	}
	return Coordinates{}, fmt.Errorf("geocode %q: %w", city, lastErr)
}

func (c *Client) save(ctx context.Context, city string, coords Coordinates) {
	if c.cache == nil {
		return
	}
	if err := c.cache.SaveCoordinates(ctx, city, coords); err != nil {
		c.log.Warn().Err(err).Str("city", city).Msg("failed to cache coordinates")
	}
}

func (c *Client) record(provider string, err error) {
	if c.recorder == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(FailureUnavailable)
		if IsInvalidAPIKey(err) {
			outcome = string(FailureInvalidAPIKey)
		}
	}
	c.recorder.RecordWeatherRequest(provider, outcome)
}
