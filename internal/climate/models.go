package climate

import "time"

// discard sentinels the provider emits in place of real temperatures. Rows
// carrying them are provider noise and are dropped wherever they appear.
const (
	sentinelHigh = 99.0
	sentinelLow  = -99.0
)

func isDiscardSentinel(v float64) bool {
	return v == sentinelHigh || v == sentinelLow
}

// DailyTemperature is one calendar day of a reconciled series. Min, Max and
// Ave are nil when the provider reported no value for the day; a day counts
// for statistics only when all three are present. FromHourly marks days whose
// values were derived from a complete 24-point hourly day rather than the
// provider's daily summary.
type DailyTemperature struct {
	Day        time.Time
	Min        *float64
	Max        *float64
	Ave        *float64
	FromHourly bool
}

// NewDailyTemperature builds a day, swapping min and max when the source
// reports them transposed. Sentinel values are treated as absent.
func NewDailyTemperature(day time.Time, min, max, ave *float64) DailyTemperature {
	min = dropSentinel(min)
	max = dropSentinel(max)
	ave = dropSentinel(ave)
	if min != nil && max != nil && *min > *max {
		min, max = max, min
	}
	return DailyTemperature{Day: day, Min: min, Max: max, Ave: ave}
}

// HasValue reports whether the day carries a full set of temperatures.
func (d DailyTemperature) HasValue() bool {
	return d.Min != nil && d.Max != nil && d.Ave != nil
}

func dropSentinel(v *float64) *float64 {
	if v != nil && isDiscardSentinel(*v) {
		return nil
	}
	return v
}

// HourlyTemperature is one hourly observation. Temperature is nil when the
// provider reported the hour without a reading; such hours still count toward
// the 24-point completeness check.
type HourlyTemperature struct {
	Time        time.Time
	Temperature *float64
}

// HasValue reports whether the hour carries a reading.
func (h HourlyTemperature) HasValue() bool {
	return h.Temperature != nil
}

func daysInYear(year int) int {
	return time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
