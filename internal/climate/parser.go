package climate

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"
)

// Provider CSV column positions. The bulk-data format is wide; only these
// columns matter here.
const (
	dailyDateCol = 0
	dailyMaxCol  = 5
	dailyMinCol  = 7
	dailyAveCol  = 9

	hourlyTimeCol = 0
	hourlyTempCol = 6
)

const (
	dailyDateLayout  = "2006-01-02"
	hourlyTimeLayout = "2006-01-02 15:04"
)

// ParseDailyRecords parses a normalized daily payload into one entry per row
// with a readable date. Rows with a malformed or empty date are skipped, as is
// the column-header line; missing or sentinel temperatures leave the matching
// field nil rather than invalidating the row.
func ParseDailyRecords(text string) []DailyTemperature {
	var out []DailyTemperature
	forEachRecord(text, func(rec []string) {
		if len(rec) <= dailyAveCol {
			return
		}
		day, err := time.Parse(dailyDateLayout, strings.TrimSpace(rec[dailyDateCol]))
		if err != nil {
			return
		}
		out = append(out, NewDailyTemperature(
			day,
			parseTemperature(rec[dailyMinCol]),
			parseTemperature(rec[dailyMaxCol]),
			parseTemperature(rec[dailyAveCol]),
		))
	})
	return out
}

// ParseHourlyRecords parses a normalized hourly payload. Rows with a readable
// timestamp are kept even when the temperature field is empty; everything else
// is skipped.
func ParseHourlyRecords(text string) []HourlyTemperature {
	var out []HourlyTemperature
	forEachRecord(text, func(rec []string) {
		if len(rec) <= hourlyTempCol {
			return
		}
		at, err := time.Parse(hourlyTimeLayout, strings.TrimSpace(rec[hourlyTimeCol]))
		if err != nil {
			return
		}
		out = append(out, HourlyTemperature{
			Time:        at,
			Temperature: dropSentinel(parseTemperature(rec[hourlyTempCol])),
		})
	})
	return out
}

func forEachRecord(text string, fn func(rec []string)) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			continue
		}
		fn(rec)
	}
}

func parseTemperature(field string) *float64 {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil
	}
	return &v
}
