package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orchardscore/orchardscore/internal/results"
	"github.com/orchardscore/orchardscore/internal/station"
	"github.com/orchardscore/orchardscore/internal/suitability"
	"github.com/orchardscore/orchardscore/internal/telemetry"
)

// Progress is a reporting side channel invoked as stations finish. It carries
// no concurrency semantics; callers wanting UI updates hook it up, everyone
// else leaves it nil.
type Progress func(percent int, message string)

// Config holds the scoring run parameters.
type Config struct {
	StartYear   int
	EndYear     int
	Concurrency int
	// StationTimeout bounds one station's fetch-and-score work.
	StationTimeout time.Duration
}

const (
	defaultConcurrency    = 4
	defaultStationTimeout = 15 * time.Minute
)

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.StationTimeout <= 0 {
		c.StationTimeout = defaultStationTimeout
	}
	return c
}

// JobConfig holds the collaborators for creating a ScoreJob.
type JobConfig struct {
	Config     Config
	Logger     zerolog.Logger
	Aggregator *suitability.Aggregator
	// Lookup resolves availability for stations loaded from identity-only
	// catalog rows. Optional; unresolved stations are skipped without it.
	Lookup station.AvailabilityLookup
	// Repository persists the run's rows. Optional.
	Repository results.Repository
	// Metrics counts scored stations. Optional.
	Metrics  *telemetry.PipelineMetrics
	Progress Progress
}

// ScoreJob scores a station list against every criterion over a year range.
// Stations are scored concurrently; the per-key cache locks make parallel
// fetches for distinct stations safe.
type ScoreJob struct {
	config     Config
	logger     zerolog.Logger
	aggregator *suitability.Aggregator
	lookup     station.AvailabilityLookup
	repository results.Repository
	metrics    *telemetry.PipelineMetrics
	progress   Progress
}

// NewScoreJob creates a scoring job.
func NewScoreJob(cfg JobConfig) *ScoreJob {
	return &ScoreJob{
		config:     cfg.Config.withDefaults(),
		logger:     cfg.Logger.With().Str("component", "runner").Logger(),
		aggregator: cfg.Aggregator,
		lookup:     cfg.Lookup,
		repository: cfg.Repository,
		metrics:    cfg.Metrics,
		progress:   cfg.Progress,
	}
}

// Result contains the outcome of a scoring run.
type Result struct {
	RunID     uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	TotalStations int
	Scored        int
	Skipped       int
	Failed        int

	Rows    []suitability.CriteriaRow
	Reports []suitability.Report
}

type stationResult struct {
	stationID string
	rows      []suitability.CriteriaRow
	report    suitability.Report
	skipped   bool
	failed    bool
}

// Run scores all stations. Data-quality problems degrade to warnings in the
// result; only context cancellation aborts the run.
func (j *ScoreJob) Run(ctx context.Context, stations []*station.Station) (*Result, error) {
	result := &Result{
		RunID:         uuid.New(),
		StartTime:     time.Now(),
		TotalStations: len(stations),
	}
	logger := j.logger.With().Str("run_id", result.RunID.String()).Logger()

	logger.Info().
		Int("stations", len(stations)).
		Int("start_year", j.config.StartYear).
		Int("end_year", j.config.EndYear).
		Int("concurrency", j.config.Concurrency).
		Msg("starting scoring run")

	stationsChan := make(chan *station.Station, len(stations))
	resultsChan := make(chan stationResult, len(stations))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.scoreWorker(ctx, stationsChan, resultsChan)
		}()
	}

	for _, st := range stations {
		stationsChan <- st
	}
	close(stationsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	done := 0
	for sr := range resultsChan {
		done++
		switch {
		case sr.failed:
			result.Failed++
		case sr.skipped:
			result.Skipped++
		default:
			result.Scored++
			j.metrics.StationScored(ctx)
		}
		result.Rows = append(result.Rows, sr.rows...)
		if !sr.report.Empty() {
			result.Reports = append(result.Reports, sr.report)
			logger.Warn().Str("station", sr.stationID).Msg(sr.report.Message())
		}
		j.reportProgress(done, len(stations), sr.stationID)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if j.repository != nil && len(result.Rows) > 0 {
		rows := make([]results.Row, 0, len(result.Rows))
		for _, row := range result.Rows {
			rows = append(rows, results.FromCriteriaRow(result.RunID, row))
		}
		if err := j.repository.SaveRows(ctx, rows); err != nil {
			return nil, fmt.Errorf("persist run %s: %w", result.RunID, err)
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	logger.Info().
		Dur("duration", result.Duration).
		Int("scored", result.Scored).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("rows", len(result.Rows)).
		Msg("scoring run completed")
	return result, nil
}

func (j *ScoreJob) scoreWorker(ctx context.Context, stations <-chan *station.Station, out chan<- stationResult) {
	for st := range stations {
		select {
		case <-ctx.Done():
			return
		default:
			out <- j.scoreStation(ctx, st)
		}
	}
}

func (j *ScoreJob) scoreStation(ctx context.Context, st *station.Station) stationResult {
	sr := stationResult{stationID: st.ID}

	stationCtx, cancel := context.WithTimeout(ctx, j.config.StationTimeout)
	defer cancel()

	if !st.Resolved() {
		if j.lookup == nil {
			j.logger.Warn().Str("station", st.ID).Msg("station has no availability and no lookup is configured")
			sr.skipped = true
			return sr
		}
		if err := st.ResolveAvailability(stationCtx, j.lookup); err != nil {
			j.logger.Warn().Err(err).Str("station", st.ID).Msg("availability resolution failed")
			sr.failed = true
			return sr
		}
	}
	if !st.AvailableForRange(j.config.StartYear, j.config.EndYear) {
		sr.skipped = true
		return sr
	}

	outcomes, report, err := j.aggregator.ComputeYears(stationCtx, st, j.config.StartYear, j.config.EndYear)
	if err != nil {
		j.logger.Warn().Err(err).Str("station", st.ID).Msg("station scoring aborted")
		sr.failed = true
		return sr
	}
	sr.report = report

	for _, criterion := range suitability.Catalog() {
		if row, ok := j.aggregator.Row(st.ID, outcomes, criterion); ok {
			sr.rows = append(sr.rows, row)
		}
	}
	return sr
}

func (j *ScoreJob) reportProgress(done, total int, stationID string) {
	if j.progress == nil || total == 0 {
		return
	}
	j.progress(done*100/total, fmt.Sprintf("scored station %s (%d/%d)", stationID, done, total))
}
