package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/temperature-analysis/internal/common"
	"github.com/i474232898/temperature-analysis/internal/weather"
)

// invalidKeyMessage is the prefix of OpenWeather's 401 message for a bad appid.
const invalidKeyMessage = "Invalid API key"

// BackoffConfig controls exponential backoff behaviour.
// MaxRetries of zero makes every call single-shot.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		// A rejected key says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || weather.IsInvalidAPIKey(err)
		},
	})
}

// doRequestWithResilience executes the HTTP request through the circuit breaker,
// retrying transient failures with exponential backoff. Non-2xx responses are
// returned as *weather.ExternalServiceError; a rejected API key is never retried.
func doRequestWithResilience(
	ctx context.Context,
	provider string,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, weather.Unavailable(provider, ctx.Err())
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}

		// Ensure the request obeys context cancellation.
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				defer resp.Body.Close()
				return nil, statusError(provider, resp)
			}

			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.ExternalServiceError{
				Provider: provider,
				Kind:     weather.FailureUnavailable,
				Message:  "circuit breaker open",
				Err:      err,
			}
		}

		if weather.IsInvalidAPIKey(err) || attempt >= cfg.Backoff.MaxRetries {
			return nil, weather.Unavailable(provider, err)
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, weather.Unavailable(provider, ctx.Err())
		case <-timer.C:
		}

		attempt++
	}
}

// statusError classifies a non-2xx response. Only a 401 carrying the
// invalid-key message counts as bad credentials.
func statusError(provider string, resp *http.Response) *weather.ExternalServiceError {
	var payload struct {
		Message string `json:"message"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(body, &payload)

	kind := weather.FailureUnavailable
	if resp.StatusCode == http.StatusUnauthorized && common.HasPrefixAny(payload.Message, invalidKeyMessage) {
		kind = weather.FailureInvalidAPIKey
	}

	return &weather.ExternalServiceError{
		Provider:   provider,
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Message:    payload.Message,
	}
}
