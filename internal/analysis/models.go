package analysis

import (
	"math"
	"time"
)

const (
	// WindowSize is the number of trailing readings used for rolling statistics.
	WindowSize = 30

	// AnomalyMultiplier is K in the mean ± K·std anomaly rule.
	AnomalyMultiplier = 2.0

	// Readings outside [MinTemperature, MaxTemperature] °C are rejected.
	MinTemperature = -273.15
	MaxTemperature = 1000.0
)

// Reading is a single daily temperature observation for a city.
type Reading struct {
	Timestamp   time.Time `json:"timestamp"`
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
}

// Series is the time-ordered list of readings for one city.
// Readings are sorted by Timestamp ascending and share the same City.
type Series struct {
	City     string    `json:"city"`
	Readings []Reading `json:"readings"`
}

// Len returns the number of readings in the series.
func (s Series) Len() int {
	return len(s.Readings)
}

// Values returns the temperatures in series order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Readings))
	for i, r := range s.Readings {
		values[i] = r.Temperature
	}
	return values
}

// RowStats holds the derived fields for one reading.
// MovingAvg and MovingStd are NaN until a full window is available.
type RowStats struct {
	MovingAvg float64
	MovingStd float64
	IsAnomaly bool
	Trend     float64
}

// HasWindow reports whether rolling statistics are defined for the row.
func (r RowStats) HasWindow() bool {
	return !math.IsNaN(r.MovingAvg) && !math.IsNaN(r.MovingStd)
}

// SeasonStat is the temperature distribution of one season.
// Std is NaN when the season holds a single reading.
type SeasonStat struct {
	Mean  float64
	Std   float64
	Count int
}

// SeasonalStats maps a season to its distribution. Seasons with no readings are absent.
type SeasonalStats map[Season]SeasonStat

// TempSummary holds the rounded global statistics of a series.
type TempSummary struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Mean int `json:"mean"`
}

// Trend is a least-squares line over row index.
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the trend line at row index i.
func (t Trend) At(i int) float64 {
	return t.Slope*float64(i) + t.Intercept
}

// Result bundles everything the engine derives from a series.
type Result struct {
	Series   Series
	Rows     []RowStats
	Seasonal SeasonalStats
	Summary  TempSummary
	Trend    Trend
}

// Anomalies returns the readings flagged as anomalous.
func (r *Result) Anomalies() []Reading {
	var out []Reading
	for i, row := range r.Rows {
		if row.IsAnomaly {
			out = append(out, r.Series.Readings[i])
		}
	}
	return out
}

// ValidTemperature reports whether v is a finite reading within the accepted range.
func ValidTemperature(v float64) bool {
	return !math.IsNaN(v) && v >= MinTemperature && v <= MaxTemperature
}
