package analysis

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSeasonOfIsTotal(t *testing.T) {
	want := map[time.Month]Season{
		time.January:   SeasonWinter,
		time.February:  SeasonWinter,
		time.March:     SeasonSpring,
		time.April:     SeasonSpring,
		time.May:       SeasonSpring,
		time.June:      SeasonSummer,
		time.July:      SeasonSummer,
		time.August:    SeasonSummer,
		time.September: SeasonAutumn,
		time.October:   SeasonAutumn,
		time.November:  SeasonAutumn,
		time.December:  SeasonWinter,
	}

	for m := time.January; m <= time.December; m++ {
		got, err := SeasonOf(m)
		if err != nil {
			t.Fatalf("month %d: unexpected error: %v", m, err)
		}
		if got != want[m] {
			t.Errorf("month %s: got %s, want %s", m, got, want[m])
		}
	}

	for _, m := range []time.Month{0, 13} {
		if _, err := SeasonOf(m); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("month %d: expected ErrInvalidMonth, got %v", m, err)
		}
	}
}

func TestCompare(t *testing.T) {
	stats := SeasonalStats{
		SeasonWinter: {Mean: 0, Std: 5, Count: 90},
		SeasonSummer: {Mean: 25, Std: 3, Count: 92},
	}

	tests := []struct {
		name      string
		month     time.Month
		temp      float64
		season    Season
		anomalous bool
	}{
		{"winter normal", time.January, 9.9, SeasonWinter, false},
		{"winter warm", time.December, 10.1, SeasonWinter, true},
		{"winter cold", time.February, -10.5, SeasonWinter, true},
		{"summer at upper bound", time.July, 31, SeasonSummer, false},
		{"summer hot", time.August, 31.5, SeasonSummer, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, err := Compare(tt.month, tt.temp, stats)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmp.Season != tt.season {
				t.Errorf("season %s, want %s", cmp.Season, tt.season)
			}
			if cmp.IsAnomalous != tt.anomalous {
				t.Errorf("IsAnomalous=%v, want %v (bounds %.1f..%.1f)", cmp.IsAnomalous, tt.anomalous, cmp.Lower, cmp.Upper)
			}
		})
	}
}

func TestCompareMissingSeason(t *testing.T) {
	stats := SeasonalStats{SeasonSummer: {Mean: 25, Std: 3, Count: 10}}

	cmp, err := Compare(time.October, 12, stats)
	if !errors.Is(err, ErrNoSeasonalData) {
		t.Fatalf("expected ErrNoSeasonalData, got %v", err)
	}
	if cmp.Season != SeasonAutumn {
		t.Errorf("expected the looked-up season to be reported, got %q", cmp.Season)
	}
}

func TestCompareUndefinedStdNeverFlags(t *testing.T) {
	stats := SeasonalStats{SeasonSpring: {Mean: 10, Std: math.NaN(), Count: 1}}

	cmp, err := Compare(time.April, 100, stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.IsAnomalous {
		t.Fatalf("a season with undefined spread must not flag readings")
	}
}
