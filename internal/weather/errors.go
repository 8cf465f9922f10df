package weather

import (
	"errors"
	"fmt"
)

// FailureKind classifies an external service failure for the user.
type FailureKind string

const (
	// FailureInvalidAPIKey means the provider rejected the credentials.
	FailureInvalidAPIKey FailureKind = "invalid_api_key"
	// FailureUnavailable covers every other non-success outcome.
	FailureUnavailable FailureKind = "unavailable"
)

// ExternalServiceError is returned for any failed call to a weather provider.
type ExternalServiceError struct {
	Provider   string
	Kind       FailureKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ExternalServiceError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// IsInvalidAPIKey reports whether err is a credentials rejection.
func IsInvalidAPIKey(err error) bool {
	var ext *ExternalServiceError
	return errors.As(err, &ext) && ext.Kind == FailureInvalidAPIKey
}

// Unavailable wraps err as a transient or unknown provider failure.
func Unavailable(provider string, err error) *ExternalServiceError {
	var ext *ExternalServiceError
	if errors.As(err, &ext) {
		return ext
	}
	return &ExternalServiceError{Provider: provider, Kind: FailureUnavailable, Err: err}
}
