package climate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/orchardscore/orchardscore/internal/station"
)

const hoursPerDay = 24

// RawSource supplies normalized provider payloads, usually the raw-record
// cache.
type RawSource interface {
	Get(ctx context.Context, stationID string, interval station.Interval, year, month int) (string, error)
	GetAnnualHourly(ctx context.Context, stationID string, year int) (string, error)
}

// ReconcileResult is a full calendar year of daily temperatures, one slot per
// day in calendar order, plus the date of the last record seen in the daily
// payload. A year whose last record is not December 31 is usable but
// incomplete.
type ReconcileResult struct {
	Year          int
	Days          []DailyTemperature
	LastRecordDay time.Time
}

// Complete reports whether the daily payload ran through December 31.
func (r ReconcileResult) Complete() bool {
	return r.LastRecordDay.Month() == time.December && r.LastRecordDay.Day() == 31
}

// Reconciler builds a year's daily series from the provider's daily summaries,
// then overlays days where a complete hourly record exists. Hourly-derived
// days replace the daily summary wholesale; the daily value is the fallback
// for months without hourly coverage.
type Reconciler struct {
	source RawSource
	series *SeriesCache
	logger zerolog.Logger
}

// NewReconciler creates a reconciler. series may be nil to disable persistence
// of reconciled years.
func NewReconciler(source RawSource, series *SeriesCache, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		source: source,
		series: series,
		logger: logger.With().Str("component", "reconciler").Logger(),
	}
}

// DailySeries returns the reconciled series for a station year, reading the
// persisted series when one exists and reconciling (then persisting) when it
// does not.
func (r *Reconciler) DailySeries(ctx context.Context, stationID string, year int) (ReconcileResult, error) {
	if r.series != nil {
		if result, ok, err := r.series.Read(stationID, year); err != nil {
			return ReconcileResult{}, err
		} else if ok {
			return result, nil
		}
	}

	result, err := r.Reconcile(ctx, stationID, year)
	if err != nil {
		return ReconcileResult{}, err
	}
	if r.series != nil {
		if err := r.series.Write(stationID, year, result); err != nil {
			return ReconcileResult{}, err
		}
	}
	return result, nil
}

// Reconcile builds the series for one station year from provider payloads.
func (r *Reconciler) Reconcile(ctx context.Context, stationID string, year int) (ReconcileResult, error) {
	result := ReconcileResult{Year: year, Days: emptyYear(year)}

	dailyText, err := r.source.Get(ctx, stationID, station.IntervalDaily, year, 1)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("daily records for station %s year %d: %w", stationID, year, err)
	}
	for _, rec := range ParseDailyRecords(dailyText) {
		if rec.Day.Year() != year {
			continue
		}
		if rec.Day.After(result.LastRecordDay) {
			result.LastRecordDay = rec.Day
		}
		if rec.HasValue() {
			result.Days[rec.Day.YearDay()-1] = rec
		}
	}

	hourlyText, err := r.source.GetAnnualHourly(ctx, stationID, year)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("hourly records for station %s year %d: %w", stationID, year, err)
	}
	overlaid := r.overlayHourly(&result, hourlyText)

	r.logger.Debug().
		Str("station", stationID).
		Int("year", year).
		Int("hourly_days", overlaid).
		Msg("reconciled year")
	return result, nil
}

// overlayHourly replaces days that have exactly 24 hourly points with at
// least one reading. Min, max and average are computed over the valued hours
// only. Returns the number of days replaced.
func (r *Reconciler) overlayHourly(result *ReconcileResult, hourlyText string) int {
	byDay := make(map[int][]HourlyTemperature)
	for _, rec := range ParseHourlyRecords(hourlyText) {
		if rec.Time.Year() != result.Year {
			continue
		}
		idx := rec.Time.YearDay() - 1
		byDay[idx] = append(byDay[idx], rec)
	}

	overlaid := 0
	for idx, hours := range byDay {
		if len(hours) != hoursPerDay {
			continue
		}
		day, ok := aggregateHours(result.Days[idx].Day, hours)
		if !ok {
			continue
		}
		result.Days[idx] = day
		overlaid++
	}
	return overlaid
}

func aggregateHours(day time.Time, hours []HourlyTemperature) (DailyTemperature, bool) {
	var (
		lo, hi, sum float64
		valued      int
	)
	for _, h := range hours {
		if !h.HasValue() {
			continue
		}
		t := *h.Temperature
		if valued == 0 || t < lo {
			lo = t
		}
		if valued == 0 || t > hi {
			hi = t
		}
		sum += t
		valued++
	}
	if valued == 0 {
		return DailyTemperature{}, false
	}
	ave := sum / float64(valued)
	out := NewDailyTemperature(day, &lo, &hi, &ave)
	out.FromHourly = true
	return out, true
}

func emptyYear(year int) []DailyTemperature {
	days := make([]DailyTemperature, daysInYear(year))
	for i := range days {
		days[i] = DailyTemperature{Day: time.Date(year, 1, 1+i, 0, 0, 0, 0, time.UTC)}
	}
	return days
}
