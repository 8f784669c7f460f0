package suitability

import "fmt"

// verdict combination rules. Heat and frost-free duration must hold every
// year; a single extreme-cold year is enough for the cold-hardiness criteria;
// frost-week and lowest-minimum rows carry raw values only.
type verdictRule int

const (
	verdictNone verdictRule = iota
	verdictAllYears
	verdictAnyYear
)

// Criterion names one suitability statistic and how its per-year values
// combine into a verdict.
type Criterion struct {
	Name      string
	rule      verdictRule
	threshold float64
	// appendCount adds a passing-year count column after the verdict.
	appendCount bool
	// appendMin adds the minimum across years after the values.
	appendMin bool
	week      int
}

// Thresholds a site must clear: mean growing-season temperature above 16.7
// degrees every year, and a frost-free run longer than 120 days every year.
const (
	seasonalAverageThreshold = 16.7
	frostFreeRunThreshold    = 120
)

// SeasonalAverage passes only when every usable year averages above 16.7
// degrees over May through September; the row also carries the count of
// passing years.
func SeasonalAverage() Criterion {
	return Criterion{Name: "seasonal_average", rule: verdictAllYears, threshold: seasonalAverageThreshold, appendCount: true}
}

// FrostFreeRun passes only when every usable year has a frost-free run longer
// than 120 days.
func FrostFreeRun() Criterion {
	return Criterion{Name: "frost_free_run", rule: verdictAllYears, threshold: frostFreeRunThreshold}
}

// LowTemp28 passes when any usable year has at least one day at or below -28.
func LowTemp28() Criterion {
	return Criterion{Name: "low_temp_28", rule: verdictAnyYear, threshold: 0}
}

// LowTemp40 passes when any usable year has at least one day at or below -40.
func LowTemp40() Criterion {
	return Criterion{Name: "low_temp_40", rule: verdictAnyYear, threshold: 0}
}

// LowestMin reports the yearly minimum temperatures plus the minimum across
// all years; it has no verdict.
func LowestMin() Criterion {
	return Criterion{Name: "lowest_min", rule: verdictNone, appendMin: true}
}

// FrostWeek reports frost-day counts for one of the sixteen 7-day windows
// following May 1; raw counts only, no verdict.
func FrostWeek(week int) Criterion {
	return Criterion{Name: fmt.Sprintf("frost_week_%02d", week), rule: verdictNone, week: week}
}

// Catalog returns every criterion evaluated for a station, in output order.
func Catalog() []Criterion {
	criteria := []Criterion{
		SeasonalAverage(),
		FrostFreeRun(),
		LowTemp28(),
		LowTemp40(),
		LowestMin(),
	}
	for week := 1; week <= frostWeekCount; week++ {
		criteria = append(criteria, FrostWeek(week))
	}
	return criteria
}

// Metric extracts this criterion's value from one year's statistics.
func (c Criterion) Metric(stats YearStatistics) Metric {
	switch {
	case c.week > 0:
		return stats.FrostWeeks[c.week-1]
	case c.Name == "seasonal_average":
		return stats.SeasonalAverage
	case c.Name == "frost_free_run":
		return stats.FrostFreeRun
	case c.Name == "low_temp_28":
		return stats.LowTemp28Days
	case c.Name == "low_temp_40":
		return stats.LowTemp40Days
	default:
		return stats.LowestMin
	}
}
