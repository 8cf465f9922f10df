package analysis

import (
	"fmt"
	"math"
)

// Analyze runs the full statistics pipeline over a series.
// The trend needs two points, so a single reading fails with ErrInsufficientData.
func Analyze(s Series) (*Result, error) {
	n := s.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyInput, s.City)
	}

	values := s.Values()
	for i, v := range values {
		if !ValidTemperature(v) {
			return nil, fmt.Errorf("%w: reading %d: temperature %v out of range", ErrMalformedInput, i, v)
		}
	}

	trend, err := FitTrend(values)
	if err != nil {
		return nil, err
	}

	avg, std := RollingStats(values, WindowSize)
	flags := DetectAnomalies(values, avg, std, AnomalyMultiplier)

	rows := make([]RowStats, n)
	for i := range rows {
		rows[i] = RowStats{
			MovingAvg: avg[i],
			MovingStd: std[i],
			IsAnomaly: flags[i],
			Trend:     trend.At(i),
		}
	}

	summary, err := Summarize(values)
	if err != nil {
		return nil, err
	}

	return &Result{
		Series:   s,
		Rows:     rows,
		Seasonal: SeasonalAggregate(s.Readings),
		Summary:  summary,
		Trend:    trend,
	}, nil
}

// RollingStats returns the trailing-window mean and sample standard deviation
// for each position. Positions before window-1 are NaN.
func RollingStats(values []float64, size int) (avg, std []float64) {
	avg = make([]float64, len(values))
	std = make([]float64, len(values))

	w := newWindow(size)
	for i, v := range values {
		w.push(v)
		avg[i] = w.mean()
		std[i] = w.std()
	}
	return avg, std
}

// DetectAnomalies flags values outside avg ± k·std. A NaN bound never flags.
func DetectAnomalies(values, avg, std []float64, k float64) []bool {
	flags := make([]bool, len(values))
	for i, v := range values {
		if i >= len(avg) || i >= len(std) {
			break
		}
		flags[i] = outside(v, avg[i], std[i], k)
	}
	return flags
}

// outside relies on NaN comparisons being false.
func outside(v, center, spread, k float64) bool {
	return v > center+k*spread || v < center-k*spread
}

// SeasonalAggregate groups readings by season and computes mean and sample std.
func SeasonalAggregate(readings []Reading) SeasonalStats {
	groups := make(map[Season][]float64)
	for _, r := range readings {
		season := seasonOf(r.Timestamp)
		groups[season] = append(groups[season], r.Temperature)
	}

	stats := make(SeasonalStats, len(groups))
	for season, temps := range groups {
		stats[season] = SeasonStat{
			Mean:  mean(temps),
			Std:   sampleStd(temps),
			Count: len(temps),
		}
	}
	return stats
}

// Summarize computes min, max and mean rounded half to even.
func Summarize(values []float64) (TempSummary, error) {
	if len(values) == 0 {
		return TempSummary{}, ErrEmptyInput
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return TempSummary{
		Min:  RoundInt(lo),
		Max:  RoundInt(hi),
		Mean: RoundInt(mean(values)),
	}, nil
}

// RoundInt rounds to the nearest integer, ties to even (12.5 -> 12, 13.5 -> 14).
func RoundInt(v float64) int {
	return int(math.RoundToEven(v))
}

// FitTrend fits temperature against row index 0..n-1 by ordinary least squares.
func FitTrend(values []float64) (Trend, error) {
	n := len(values)
	if n < 2 {
		return Trend{}, fmt.Errorf("%w: got %d", ErrInsufficientData, n)
	}

	xMean := float64(n-1) / 2
	yMean := mean(values)

	var sxy, sxx float64
	for i, y := range values {
		dx := float64(i) - xMean
		sxy += dx * (y - yMean)
		sxx += dx * dx
	}

	slope := sxy / sxx
	return Trend{
		Slope:     slope,
		Intercept: yMean - slope*xMean,
	}, nil
}
