package suitability

import (
	"time"

	"github.com/orchardscore/orchardscore/internal/climate"
)

// Domain thresholds. Frost is a daily minimum at or below -2.0 degrees; the
// growing-season window runs May through September.
const (
	frostThreshold  = -2.0
	seasonFirst     = time.May
	seasonLast      = time.September
	frostWeekCount  = 16
	frostWeekLength = 7
)

// YearStatistics holds every suitability metric for one calendar year,
// computed from the year's reconciled daily series. Metrics consider only
// days with a full set of values; a year with zero such days has every metric
// missing.
type YearStatistics struct {
	Year            int
	LowestMin       Metric
	SeasonalAverage Metric
	FrostFreeRun    Metric
	FrostWeeks      [frostWeekCount]Metric
	LowTemp28Days   Metric
	LowTemp40Days   Metric
}

// Compute derives the statistics for a year. days must be in calendar order,
// as produced by the reconciler.
func Compute(year int, days []climate.DailyTemperature) YearStatistics {
	stats := YearStatistics{
		Year:            year,
		LowestMin:       Missing(),
		SeasonalAverage: Missing(),
		FrostFreeRun:    Missing(),
		LowTemp28Days:   Missing(),
		LowTemp40Days:   Missing(),
	}
	for w := range stats.FrostWeeks {
		stats.FrostWeeks[w] = Missing()
	}

	valued := make([]climate.DailyTemperature, 0, len(days))
	for _, d := range days {
		if d.HasValue() {
			valued = append(valued, d)
		}
	}
	if len(valued) == 0 {
		return stats
	}

	stats.LowestMin = lowestMin(valued)
	stats.SeasonalAverage = seasonalAverage(valued)
	stats.FrostFreeRun = frostFreeRun(valued)
	stats.LowTemp28Days = lowTempDays(valued, -28)
	stats.LowTemp40Days = lowTempDays(valued, -40)
	for w := 1; w <= frostWeekCount; w++ {
		stats.FrostWeeks[w-1] = frostCountInWeek(year, valued, w)
	}
	return stats
}

func lowestMin(days []climate.DailyTemperature) Metric {
	lo := *days[0].Min
	for _, d := range days[1:] {
		if *d.Min < lo {
			lo = *d.Min
		}
	}
	return Value(lo)
}

func seasonalAverage(days []climate.DailyTemperature) Metric {
	var (
		sum float64
		n   int
	)
	for _, d := range days {
		if m := d.Day.Month(); m >= seasonFirst && m <= seasonLast {
			sum += *d.Ave
			n++
		}
	}
	if n == 0 {
		return Missing()
	}
	return Value(sum / float64(n))
}

// frostFreeRun counts consecutive frost-free days. A frost before August
// resets the run (spring frosts delay the season start); a frost in August or
// later ends it (first fall frost closes the season).
func frostFreeRun(days []climate.DailyTemperature) Metric {
	run := 0
	for _, d := range days {
		if *d.Min > frostThreshold {
			run++
			continue
		}
		if d.Day.Month() <= time.July {
			run = 0
			continue
		}
		break
	}
	return Count(run)
}

// frostCountInWeek counts frost days inside the 7-day window starting
// (week-1)*7 days after May 1. Missing when no valued day falls in the
// window, which is distinct from a real zero.
func frostCountInWeek(year int, days []climate.DailyTemperature, week int) Metric {
	start := time.Date(year, time.May, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, (week-1)*frostWeekLength)
	end := start.AddDate(0, 0, frostWeekLength)

	seen := false
	frost := 0
	for _, d := range days {
		if d.Day.Before(start) || !d.Day.Before(end) {
			continue
		}
		seen = true
		if *d.Min < frostThreshold {
			frost++
		}
	}
	if !seen {
		return Missing()
	}
	return Count(frost)
}

func lowTempDays(days []climate.DailyTemperature, threshold float64) Metric {
	n := 0
	for _, d := range days {
		if *d.Min <= threshold {
			n++
		}
	}
	return Count(n)
}
