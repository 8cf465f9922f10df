package dashboard

import (
	"math"
	"time"

	"github.com/i474232898/temperature-analysis/internal/analysis"
)

// Report is the presentation-ready outcome of a run. Undefined statistics
// are encoded as null.
type Report struct {
	ID          string               `json:"id"`
	City        string               `json:"city"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Summary     analysis.TempSummary `json:"summary"`
	Trend       analysis.Trend       `json:"trend"`
	Points      []Point              `json:"points"`
	Seasons     []SeasonRow          `json:"seasons"`
	Anomalies   []analysis.Reading   `json:"anomalies"`
	Live        LiveComparison       `json:"live"`
}

// Point is one row of the chart series.
type Point struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	MovingAvg   *float64  `json:"movingAvg"`
	MovingStd   *float64  `json:"movingStd"`
	Trend       float64   `json:"trend"`
	IsAnomaly   bool      `json:"isAnomaly"`
}

// SeasonRow is one line of the seasonal table.
type SeasonRow struct {
	Season analysis.Season `json:"season"`
	Mean   float64         `json:"mean"`
	Std    *float64        `json:"std"`
	Count  int             `json:"count"`
}

type LiveStatus string

const (
	LiveOK             LiveStatus = "ok"
	LiveSkipped        LiveStatus = "skipped"
	LiveInvalidAPIKey  LiveStatus = "invalid_api_key"
	LiveUnavailable    LiveStatus = "unavailable"
	LiveNoSeasonalData LiveStatus = "no_seasonal_data"
)

// LiveComparison is the verdict on the current temperature. Only Status and
// Message are always set.
type LiveComparison struct {
	Status      LiveStatus      `json:"status"`
	Message     string          `json:"message"`
	Temperature *float64        `json:"temperature,omitempty"`
	Rounded     *int            `json:"rounded,omitempty"`
	Season      analysis.Season `json:"season,omitempty"`
	Lower       *float64        `json:"lower,omitempty"`
	Upper       *float64        `json:"upper,omitempty"`
	IsAnomalous *bool           `json:"isAnomalous,omitempty"`
}

func buildPoints(res *analysis.Result) []Point {
	points := make([]Point, len(res.Rows))
	for i, row := range res.Rows {
		r := res.Series.Readings[i]
		points[i] = Point{
			Timestamp:   r.Timestamp,
			Temperature: r.Temperature,
			MovingAvg:   finite(row.MovingAvg),
			MovingStd:   finite(row.MovingStd),
			Trend:       row.Trend,
			IsAnomaly:   row.IsAnomaly,
		}
	}
	return points
}

func buildSeasons(stats analysis.SeasonalStats) []SeasonRow {
	rows := make([]SeasonRow, 0, len(stats))
	for _, season := range analysis.Seasons {
		st, ok := stats[season]
		if !ok {
			continue
		}
		rows = append(rows, SeasonRow{
			Season: season,
			Mean:   st.Mean,
			Std:    finite(st.Std),
			Count:  st.Count,
		})
	}
	return rows
}

// finite returns nil for NaN and infinities.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
