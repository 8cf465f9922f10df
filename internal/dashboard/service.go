package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/i474232898/temperature-analysis/internal/analysis"
	"github.com/i474232898/temperature-analysis/internal/weather"
)

// TemperatureSource returns the live temperature for a city.
type TemperatureSource interface {
	CurrentTemperature(ctx context.Context, city, apiKey string) (weather.CurrentReading, error)
}

// Recorder receives pipeline metrics.
type Recorder interface {
	RecordAnalysis(outcome string, seconds float64)
	RecordAnomalies(city string, n int)
	RecordLiveComparison(status string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAnalysis(string, float64) {}
func (nopRecorder) RecordAnomalies(string, int)    {}
func (nopRecorder) RecordLiveComparison(string)    {}

// Service runs the dashboard pipeline: load, analyze, compare live, assemble.
type Service struct {
	source     TemperatureSource
	recorder   Recorder
	log        zerolog.Logger
	now        func() time.Time
	defaultKey string
}

type Option func(*Service)

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithClock sets the clock used to pick the current season.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDefaultAPIKey sets the key used when a run does not carry one.
func WithDefaultAPIKey(key string) Option {
	return func(s *Service) {
		s.defaultKey = key
	}
}

// NewService creates a Service. source may be nil, in which case the live
// comparison is always skipped.
func NewService(source TemperatureSource, opts ...Option) *Service {
	s := &Service{
		source:   source,
		recorder: nopRecorder{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the pipeline for one input. Loader and engine errors abort the
// run; weather failures only affect Report.Live.
func (s *Service) Run(ctx context.Context, in Input) (*Report, error) {
	start := time.Now()
	report, err := s.run(ctx, in)
	s.recorder.RecordAnalysis(outcome(err), time.Since(start).Seconds())
	if err != nil {
		s.log.Debug().Err(err).Str("city", in.City).Msg("analysis failed")
	}
	return report, err
}

func (s *Service) run(ctx context.Context, in Input) (*Report, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	series, err := analysis.LoadSeries(bytes.NewReader(in.File), in.City)
	if err != nil {
		return nil, err
	}

	res, err := analysis.Analyze(series)
	if err != nil {
		return nil, err
	}

	anomalies := res.Anomalies()
	s.recorder.RecordAnomalies(in.City, len(anomalies))
	if anomalies == nil {
		anomalies = []analysis.Reading{}
	}

	live := s.compareLive(ctx, in.City, in.APIKey, res.Seasonal)
	s.recorder.RecordLiveComparison(string(live.Status))

	return &Report{
		ID:          uuid.NewString(),
		City:        in.City,
		GeneratedAt: s.now().UTC(),
		Summary:     res.Summary,
		Trend:       res.Trend,
		Points:      buildPoints(res),
		Seasons:     buildSeasons(res.Seasonal),
		Anomalies:   anomalies,
		Live:        live,
	}, nil
}

func (s *Service) compareLive(ctx context.Context, city, apiKey string, stats analysis.SeasonalStats) LiveComparison {
	if apiKey == "" {
		apiKey = s.defaultKey
	}
	if apiKey == "" || s.source == nil {
		return LiveComparison{Status: LiveSkipped, Message: "Enter API key if you want to see current temperature"}
	}

	reading, err := s.source.CurrentTemperature(ctx, city, apiKey)
	if err != nil {
		s.log.Warn().Err(err).Str("city", city).Msg("current temperature unavailable")
		if weather.IsInvalidAPIKey(err) {
			return LiveComparison{Status: LiveInvalidAPIKey, Message: "Incorrect API key"}
		}
		return LiveComparison{
			Status:  LiveUnavailable,
			Message: "An error occurred while getting current temperature. Please try again later",
		}
	}

	temp := reading.TemperatureC
	rounded := analysis.RoundInt(temp)
	live := LiveComparison{Temperature: &temp, Rounded: &rounded}

	cmp, err := analysis.Compare(s.now().UTC().Month(), temp, stats)
	live.Season = cmp.Season
	if errors.Is(err, analysis.ErrNoSeasonalData) {
		live.Status = LiveNoSeasonalData
		live.Message = fmt.Sprintf("No historical data for %s in %s", cmp.Season, city)
		return live
	}
	if err != nil {
		s.log.Error().Err(err).Str("city", city).Msg("live comparison failed")
		live.Status = LiveUnavailable
		live.Message = "An error occurred while getting current temperature. Please try again later"
		return live
	}

	verdict := "normal"
	if cmp.IsAnomalous {
		verdict = "anomalous"
	}
	live.Status = LiveOK
	live.Message = fmt.Sprintf("Current temperature is %s for %s in %s", verdict, cmp.Season, city)
	live.Lower = finite(cmp.Lower)
	live.Upper = finite(cmp.Upper)
	live.IsAnomalous = &cmp.IsAnomalous
	return live
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, analysis.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, analysis.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, analysis.ErrInsufficientData):
		return "insufficient_data"
	default:
		return "error"
	}
}

// Describe returns the message shown to the user for a failed run.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return err.Error()
	case errors.Is(err, analysis.ErrMalformedInput):
		return "The uploaded file could not be read. Upload a .csv file with city, timestamp and temperature columns"
	case errors.Is(err, analysis.ErrEmptyInput):
		return "The uploaded file has no data for the selected city"
	case errors.Is(err, analysis.ErrInsufficientData):
		return "At least two readings are needed to analyze the selected city"
	default:
		return "An unexpected error occurred"
	}
}
