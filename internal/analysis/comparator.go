package analysis

import (
	"fmt"
	"time"
)

// Comparison is the verdict for a single reading against its season.
type Comparison struct {
	Season      Season
	Temperature float64
	Mean        float64
	Std         float64
	Lower       float64
	Upper       float64
	IsAnomalous bool
}

// Compare checks a reading taken in month against the seasonal distribution.
// It fails with ErrNoSeasonalData when stats do not cover the month's season;
// callers skip the comparison in that case.
func Compare(month time.Month, temperature float64, stats SeasonalStats) (Comparison, error) {
	season, err := SeasonOf(month)
	if err != nil {
		return Comparison{}, err
	}

	st, ok := stats[season]
	if !ok {
		return Comparison{Season: season}, fmt.Errorf("%w: %s", ErrNoSeasonalData, season)
	}

	return Comparison{
		Season:      season,
		Temperature: temperature,
		Mean:        st.Mean,
		Std:         st.Std,
		Lower:       st.Mean - AnomalyMultiplier*st.Std,
		Upper:       st.Mean + AnomalyMultiplier*st.Std,
		IsAnomalous: outside(temperature, st.Mean, st.Std, AnomalyMultiplier),
	}, nil
}
