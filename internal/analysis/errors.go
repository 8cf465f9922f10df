package analysis

import "errors"

var (
	// ErrMalformedInput is returned when the uploaded dataset cannot be parsed.
	ErrMalformedInput = errors.New("malformed input")

	// ErrEmptyInput is returned when a series has no readings.
	ErrEmptyInput = errors.New("no readings for selected city")

	// ErrInsufficientData is returned when a series is too short to fit a trend.
	ErrInsufficientData = errors.New("at least two readings are required")

	// ErrNoSeasonalData is returned when the historical data does not cover a season.
	ErrNoSeasonalData = errors.New("no historical data for season")

	// ErrInvalidMonth is returned for a month outside 1-12.
	ErrInvalidMonth = errors.New("invalid month")
)
