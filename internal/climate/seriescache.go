package climate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// SeriesCache persists reconciled years so a station-year is reconciled from
// provider payloads at most once. Entries live under
// <dir>/<stationID>/series/<year>.csv as day,min,max,ave,hourly rows, one per
// day that carried a full set of values.
type SeriesCache struct {
	dir string
}

// NewSeriesCache creates a series cache rooted at dir.
func NewSeriesCache(dir string) *SeriesCache {
	return &SeriesCache{dir: dir}
}

// Path returns the series file path for a station year.
func (c *SeriesCache) Path(stationID string, year int) string {
	return filepath.Join(c.dir, stationID, "series", fmt.Sprintf("%d.csv", year))
}

// Write persists the valued days of a reconciled year atomically.
func (c *SeriesCache) Write(stationID string, year int, result ReconcileResult) error {
	var sb strings.Builder
	sb.WriteString("day,min,max,ave,hourly\n")
	for _, d := range result.Days {
		if !d.HasValue() {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s\n",
			d.Day.Format(dailyDateLayout),
			formatTemperature(d.Min),
			formatTemperature(d.Max),
			formatTemperature(d.Ave),
			strconv.FormatBool(d.FromHourly),
		))
	}

	path := c.Path(stationID, year)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create series directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create series temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write series temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close series temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish series entry: %w", err)
	}
	return nil
}

// Read loads a persisted year. ok is false when no entry exists. Rows with
// missing values or discard sentinels are dropped and inverted min/max pairs
// are re-swapped, so a read is safe even against hand-edited files.
func (c *SeriesCache) Read(stationID string, year int) (ReconcileResult, bool, error) {
	data, err := os.ReadFile(c.Path(stationID, year))
	if os.IsNotExist(err) {
		return ReconcileResult{}, false, nil
	}
	if err != nil {
		return ReconcileResult{}, false, fmt.Errorf("read series entry: %w", err)
	}

	result := ReconcileResult{Year: year, Days: emptyYear(year)}
	forEachRecord(string(data), func(rec []string) {
		if len(rec) < 5 {
			return
		}
		day, parseErr := time.Parse(dailyDateLayout, strings.TrimSpace(rec[0]))
		if parseErr != nil || day.Year() != year {
			return
		}
		d := NewDailyTemperature(day, parseTemperature(rec[1]), parseTemperature(rec[2]), parseTemperature(rec[3]))
		if !d.HasValue() {
			return
		}
		d.FromHourly, _ = strconv.ParseBool(strings.TrimSpace(rec[4]))
		result.Days[day.YearDay()-1] = d
		if day.After(result.LastRecordDay) {
			result.LastRecordDay = day
		}
	})
	return result, true, nil
}

func formatTemperature(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
