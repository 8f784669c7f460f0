package suitability_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardscore/orchardscore/internal/climate"
	"github.com/orchardscore/orchardscore/internal/station"
	"github.com/orchardscore/orchardscore/internal/suitability"
)

type fakeSeries struct {
	years map[int]climate.ReconcileResult
	errs  map[int]error
}

func (f *fakeSeries) DailySeries(_ context.Context, _ string, year int) (climate.ReconcileResult, error) {
	if err := f.errs[year]; err != nil {
		return climate.ReconcileResult{}, err
	}
	return f.years[year], nil
}

// seasonalYear builds a complete year whose May-September average is exactly
// ave and whose minimums never reach frost.
func seasonalYear(year int, ave float64) climate.ReconcileResult {
	var days []climate.DailyTemperature
	start := time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 153; d++ { // May 1 through Sep 30
		lo, hi, mean := 5.0, ave+10, ave
		days = append(days, climate.NewDailyTemperature(start.AddDate(0, 0, d), &lo, &hi, &mean))
	}
	return climate.ReconcileResult{
		Year:          year,
		Days:          days,
		LastRecordDay: time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// coldYear builds a year containing n days at temp plus one mild day.
func coldYear(year, n int, temp float64) climate.ReconcileResult {
	var days []climate.DailyTemperature
	start := time.Date(year, 1, 10, 0, 0, 0, 0, time.UTC)
	for d := 0; d < n; d++ {
		lo, hi, mean := temp, temp+8, temp+4
		days = append(days, climate.NewDailyTemperature(start.AddDate(0, 0, d), &lo, &hi, &mean))
	}
	lo, hi, mean := 2.0, 10.0, 6.0
	days = append(days, climate.NewDailyTemperature(start.AddDate(0, 0, n), &lo, &hi, &mean))
	return climate.ReconcileResult{
		Year:          year,
		Days:          days,
		LastRecordDay: time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func availableStation(id string, firstYear, lastYear int) *station.Station {
	st := station.New(id, "TEST STATION", "ON", 42.9, -80.5, 231.0)
	first := time.Date(firstYear, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(lastYear, 12, 31, 0, 0, 0, 0, time.UTC)
	st.SetAvailability(station.Availability{
		Daily: station.NewAvailabilityWindow(station.IntervalDaily, first, last),
	})
	return st
}

func newAggregator(source suitability.SeriesSource) *suitability.Aggregator {
	return suitability.NewAggregator(source, zerolog.New(io.Discard))
}

func computeYears(t *testing.T, source suitability.SeriesSource, st *station.Station, start, end int) ([]suitability.YearOutcome, suitability.Report) {
	t.Helper()
	outcomes, report, err := newAggregator(source).ComputeYears(context.Background(), st, start, end)
	require.NoError(t, err)
	return outcomes, report
}

func values(row suitability.CriteriaRow) []string {
	out := make([]string, len(row.Values))
	for i, v := range row.Values {
		out[i] = v.String()
	}
	return out
}

func TestRow_SeasonalAverageVerdictNeedsEveryYear(t *testing.T) {
	source := &fakeSeries{years: map[int]climate.ReconcileResult{
		2010: seasonalYear(2010, 17.0),
		2011: seasonalYear(2011, 15.0),
		2012: seasonalYear(2012, 18.0),
	}}
	st := availableStation("1234", 2005, 2015)
	outcomes, _ := computeYears(t, source, st, 2010, 2012)

	row, ok := newAggregator(source).Row(st.ID, outcomes, suitability.SeasonalAverage())
	require.True(t, ok)
	assert.Equal(t, []string{"17", "15", "18"}, values(row))
	assert.Equal(t, "0", row.Verdict.String())
	assert.Equal(t, "2", row.Extra.String()) // 17 and 18 pass, 15 does not
}

func TestRow_SeasonalAveragePassingAllYears(t *testing.T) {
	source := &fakeSeries{years: map[int]climate.ReconcileResult{
		2010: seasonalYear(2010, 17.0),
		2011: seasonalYear(2011, 17.0),
		2012: seasonalYear(2012, 18.0),
	}}
	st := availableStation("1234", 2005, 2015)
	outcomes, _ := computeYears(t, source, st, 2010, 2012)

	row, ok := newAggregator(source).Row(st.ID, outcomes, suitability.SeasonalAverage())
	require.True(t, ok)
	assert.Equal(t, "1", row.Verdict.String())
	assert.Equal(t, "3", row.Extra.String())
}

func TestRow_LowTempAnyYearQualifies(t *testing.T) {
	source := &fakeSeries{years: map[int]climate.ReconcileResult{
		2010: coldYear(2010, 0, -10.0),
		2011: coldYear(2011, 2, -41.0),
	}}
	st := availableStation("1234", 2005, 2015)
	outcomes, _ := computeYears(t, source, st, 2010, 2011)
	agg := newAggregator(source)

	row40, ok := agg.Row(st.ID, outcomes, suitability.LowTemp40())
	require.True(t, ok)
	assert.Equal(t, "1", row40.Verdict.String())

	row28, ok := agg.Row(st.ID, outcomes, suitability.LowTemp28())
	require.True(t, ok)
	assert.Equal(t, "1", row28.Verdict.String())
}

func TestRow_FrostWeekHasNoVerdict(t *testing.T) {
	source := &fakeSeries{years: map[int]climate.ReconcileResult{
		2010: seasonalYear(2010, 17.0),
	}}
	st := availableStation("1234", 2005, 2015)
	outcomes, _ := computeYears(t, source, st, 2010, 2010)

	row, ok := newAggregator(source).Row(st.ID, outcomes, suitability.FrostWeek(1))
	require.True(t, ok)
	assert.True(t, row.Verdict.IsMissing())
	assert.Equal(t, []string{"0"}, values(row))
}

func TestRow_LowestMinAppendsRangeMinimum(t *testing.T) {
	source := &fakeSeries{years: map[int]climate.ReconcileResult{
		2010: coldYear(2010, 1, -20.0),
		2011: coldYear(2011, 1, -33.0),
	}}
	st := availableStation("1234", 2005, 2015)
	outcomes, _ := computeYears(t, source, st, 2010, 2011)

	row, ok := newAggregator(source).Row(st.ID, outcomes, suitability.LowestMin())
	require.True(t, ok)
	assert.True(t, row.Verdict.IsMissing())
	assert.Equal(t, "-33", row.Extra.String())
}

func TestRow_AllYearsMissingGivesEmptyRow(t *testing.T) {
	source := &fakeSeries{years: map[int]climate.ReconcileResult{}}
	st := availableStation("1234", 1950, 1960) // range entirely outside availability
	outcomes, _ := computeYears(t, source, st, 2010, 2012)

	_, ok := newAggregator(source).Row(st.ID, outcomes, suitability.SeasonalAverage())
	assert.False(t, ok)
}

func TestComputeYears_FetchFailureBecomesFailureYear(t *testing.T) {
	source := &fakeSeries{
		years: map[int]climate.ReconcileResult{2010: seasonalYear(2010, 17.0)},
		errs:  map[int]error{2011: errors.New("provider down")},
	}
	st := availableStation("1234", 2005, 2015)
	outcomes, report := computeYears(t, source, st, 2010, 2011)

	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Usable)
	assert.False(t, outcomes[1].Usable)
	assert.True(t, outcomes[1].Failed)
	assert.Equal(t, []int{2011}, report.FailureYears)

	// The failure degrades to a missing cell, not a dropped row.
	row, ok := newAggregator(source).Row(st.ID, outcomes, suitability.SeasonalAverage())
	require.True(t, ok)
	assert.Equal(t, []string{"17", ""}, values(row))
	assert.Equal(t, "1", row.Verdict.String())
}

func TestComputeYears_IncompleteYearWarnsButCounts(t *testing.T) {
	partial := seasonalYear(2010, 17.0)
	partial.LastRecordDay = time.Date(2010, 9, 30, 0, 0, 0, 0, time.UTC)
	source := &fakeSeries{years: map[int]climate.ReconcileResult{2010: partial}}
	st := availableStation("1234", 2005, 2015)

	outcomes, report := computeYears(t, source, st, 2010, 2010)
	assert.Equal(t, []int{2010}, report.IncompleteYears)
	assert.True(t, outcomes[0].Usable)
}

func TestComputeYears_Cancellation(t *testing.T) {
	source := &fakeSeries{years: map[int]climate.ReconcileResult{}}
	st := availableStation("1234", 2005, 2015)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := newAggregator(source).ComputeYears(ctx, st, 2010, 2012)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReport_MessageGroupsFiveYearsPerLine(t *testing.T) {
	report := suitability.Report{
		StationID:       "1234",
		FailureYears:    []int{2001, 2002, 2003, 2004, 2005, 2006, 2007},
		IncompleteYears: []int{2010},
	}
	msg := report.Message()
	assert.Contains(t, msg, "station 1234")
	assert.Contains(t, msg, "2001, 2002, 2003, 2004, 2005,\n2006, 2007")
	assert.Contains(t, msg, "uncompleted years:\n2010")

	assert.True(t, suitability.Report{}.Empty())
	assert.Empty(t, suitability.Report{}.Message())
}
