package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Required column names of an uploaded dataset.
const (
	ColumnCity        = "city"
	ColumnTimestamp   = "timestamp"
	ColumnTemperature = "temperature"
)

var timestampLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// LoadSeries reads a CSV dataset and returns the readings of city sorted by timestamp.
// The city match is exact and case-sensitive. No matching rows yields an empty
// series, not an error.
func LoadSeries(r io.Reader, city string) (Series, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Series{}, fmt.Errorf("%w: read csv: %v", ErrMalformedInput, err)
	}
	if len(records) == 0 {
		return Series{}, fmt.Errorf("%w: missing header", ErrMalformedInput)
	}
	// Spreadsheet exports often start with a UTF-8 byte order mark.
	if len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	if err := checkHeader(records[0]); err != nil {
		return Series{}, err
	}

	out := Series{City: city}
	if len(records) == 1 {
		return out, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return Series{}, fmt.Errorf("%w: load records: %v", ErrMalformedInput, df.Err)
	}

	// Every row must parse, whichever city it belongs to.
	cities, err := column(df, ColumnCity)
	if err != nil {
		return Series{}, err
	}
	if err := validateCells(df); err != nil {
		return Series{}, err
	}

	if !containsRecord(cities, city) {
		return out, nil
	}

	rows := df.Filter(dataframe.F{
		Colname:    ColumnCity,
		Comparator: series.Eq,
		Comparando: city,
	})
	if rows.Err != nil {
		return Series{}, fmt.Errorf("%w: filter by city: %v", ErrMalformedInput, rows.Err)
	}

	timestamps, err := column(rows, ColumnTimestamp)
	if err != nil {
		return Series{}, err
	}
	temperatures, err := column(rows, ColumnTemperature)
	if err != nil {
		return Series{}, err
	}

	out.Readings = make([]Reading, 0, len(timestamps))
	for i := range timestamps {
		ts, err := parseTimestamp(timestamps[i])
		if err != nil {
			return Series{}, err
		}
		temp, err := parseTemperature(temperatures[i])
		if err != nil {
			return Series{}, err
		}
		out.Readings = append(out.Readings, Reading{
			Timestamp:   ts,
			City:        city,
			Temperature: temp,
		})
	}

	sort.SliceStable(out.Readings, func(i, j int) bool {
		return out.Readings[i].Timestamp.Before(out.Readings[j].Timestamp)
	})

	return out, nil
}

// checkHeader requires the three data columns and rejects repeated names.
func checkHeader(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return fmt.Errorf("%w: duplicate column %q", ErrMalformedInput, name)
		}
		seen[name] = true
	}

	var missing []string
	for _, col := range []string{ColumnCity, ColumnTimestamp, ColumnTemperature} {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns: %s", ErrMalformedInput, strings.Join(missing, ", "))
	}
	return nil
}

func column(df dataframe.DataFrame, name string) ([]string, error) {
	col := df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: column %s: %v", ErrMalformedInput, name, col.Err)
	}
	return col.Records(), nil
}

func validateCells(df dataframe.DataFrame) error {
	timestamps, err := column(df, ColumnTimestamp)
	if err != nil {
		return err
	}
	temperatures, err := column(df, ColumnTemperature)
	if err != nil {
		return err
	}
	for i := range timestamps {
		if _, err := parseTimestamp(timestamps[i]); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		if _, err := parseTemperature(temperatures[i]); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

func containsRecord(records []string, want string) bool {
	for _, r := range records {
		if r == want {
			return true
		}
	}
	return false
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", ErrMalformedInput, s)
}

func parseTemperature(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !ValidTemperature(v) {
		return 0, fmt.Errorf("%w: invalid temperature %q", ErrMalformedInput, s)
	}
	return v, nil
}
