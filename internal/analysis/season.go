package analysis

import (
	"fmt"
	"time"
)

// Season is a meteorological season of the northern-hemisphere calendar.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

// Seasons lists every season in calendar order starting from winter.
var Seasons = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonAutumn}

var monthToSeason = [...]Season{
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

// SeasonOf maps a calendar month to its season.
func SeasonOf(m time.Month) (Season, error) {
	if m < time.January || m > time.December {
		return "", fmt.Errorf("%w: %d", ErrInvalidMonth, int(m))
	}
	return monthToSeason[m], nil
}

// seasonOf is SeasonOf for months taken from a valid time.Time.
func seasonOf(t time.Time) Season {
	return monthToSeason[t.Month()]
}
