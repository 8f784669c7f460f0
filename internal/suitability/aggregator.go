package suitability

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/orchardscore/orchardscore/internal/climate"
	"github.com/orchardscore/orchardscore/internal/station"
)

// SeriesSource yields the reconciled daily series for a station year, usually
// the reconciler backed by the raw-record and series caches.
type SeriesSource interface {
	DailySeries(ctx context.Context, stationID string, year int) (climate.ReconcileResult, error)
}

// YearOutcome is one year's statistics plus how the year was obtained. Years
// outside the station's availability window and years whose fetch failed are
// unusable and appear as missing in every criteria row.
type YearOutcome struct {
	Year   int
	Stats  YearStatistics
	Usable bool
	Failed bool
}

// CriteriaRow is one output row: a station, its per-year values for one
// criterion in year order, and the criterion's trailing columns. Missing
// metrics render as empty cells.
type CriteriaRow struct {
	StationID string
	Criterion string
	Years     []int
	Values    []Metric
	Verdict   Metric
	Extra     Metric
}

// Aggregator runs the statistics engine across a year range per station and
// combines the per-year results under each criterion's verdict rule.
type Aggregator struct {
	source SeriesSource
	logger zerolog.Logger
}

// NewAggregator creates an aggregator over the given series source.
func NewAggregator(source SeriesSource, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		source: source,
		logger: logger.With().Str("component", "aggregator").Logger(),
	}
}

// ComputeYears evaluates every year in [startYear, endYear] for one station.
// Fetch failures degrade to unusable years recorded in the report; only
// context cancellation aborts. The station's availability must already be
// resolved.
func (a *Aggregator) ComputeYears(ctx context.Context, st *station.Station, startYear, endYear int) ([]YearOutcome, Report, error) {
	outcomes := make([]YearOutcome, 0, endYear-startYear+1)
	report := Report{StationID: st.ID}

	for year := startYear; year <= endYear; year++ {
		if err := ctx.Err(); err != nil {
			return nil, Report{}, err
		}
		if !st.AvailableForYear(year) {
			outcomes = append(outcomes, YearOutcome{Year: year})
			continue
		}

		result, err := a.source.DailySeries(ctx, st.ID, year)
		if err != nil {
			if ctx.Err() != nil {
				return nil, Report{}, ctx.Err()
			}
			a.logger.Warn().Err(err).Str("station", st.ID).Int("year", year).Msg("year excluded after fetch failure")
			report.FailureYears = append(report.FailureYears, year)
			outcomes = append(outcomes, YearOutcome{Year: year, Failed: true})
			continue
		}
		if !result.Complete() {
			report.IncompleteYears = append(report.IncompleteYears, year)
		}

		outcomes = append(outcomes, YearOutcome{
			Year:   year,
			Stats:  Compute(year, result.Days),
			Usable: true,
		})
	}
	return outcomes, report, nil
}

// Row builds the output row for one criterion from precomputed year outcomes.
// ok is false when every year is missing, which callers treat as "omit this
// station entirely".
func (a *Aggregator) Row(stationID string, outcomes []YearOutcome, criterion Criterion) (CriteriaRow, bool) {
	row := CriteriaRow{
		StationID: stationID,
		Criterion: criterion.Name,
		Years:     make([]int, 0, len(outcomes)),
		Values:    make([]Metric, 0, len(outcomes)),
		Verdict:   Missing(),
		Extra:     Missing(),
	}

	allMissing := true
	for _, outcome := range outcomes {
		value := Missing()
		if outcome.Usable {
			value = criterion.Metric(outcome.Stats)
		}
		if !value.IsMissing() {
			allMissing = false
		}
		row.Years = append(row.Years, outcome.Year)
		row.Values = append(row.Values, value)
	}
	if allMissing {
		return CriteriaRow{}, false
	}

	switch criterion.rule {
	case verdictAllYears:
		verdict := 1
		passing := 0
		for _, v := range row.Values {
			if v.IsMissing() {
				continue
			}
			if v.Exceeds(criterion.threshold) {
				passing++
			} else {
				verdict = 0
			}
		}
		row.Verdict = Count(verdict)
		if criterion.appendCount {
			row.Extra = Count(passing)
		}
	case verdictAnyYear:
		verdict := 0
		for _, v := range row.Values {
			if v.Exceeds(criterion.threshold) {
				verdict = 1
				break
			}
		}
		row.Verdict = Count(verdict)
	}

	if criterion.appendMin {
		row.Extra = minAcrossYears(row.Values)
	}
	return row, true
}

func minAcrossYears(values []Metric) Metric {
	out := Missing()
	for _, v := range values {
		f, ok := v.Float()
		if !ok {
			continue
		}
		if cur, has := out.Float(); !has || f < cur {
			out = Value(f)
		}
	}
	return out
}
