package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the counters emitted by the acquisition and scoring
// pipeline. A nil *PipelineMetrics is valid and records nothing, so callers
// never need to guard their instrumentation sites.
type PipelineMetrics struct {
	cacheHits      metric.Int64Counter
	cacheMisses    metric.Int64Counter
	fetchFailures  metric.Int64Counter
	stationsScored metric.Int64Counter
}

// NewPipelineMetrics registers the pipeline counters on the meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	cacheHits, err := meter.Int64Counter("rawcache.hits",
		metric.WithDescription("Raw record cache hits"))
	if err != nil {
		return nil, err
	}
	cacheMisses, err := meter.Int64Counter("rawcache.misses",
		metric.WithDescription("Raw record cache misses"))
	if err != nil {
		return nil, err
	}
	fetchFailures, err := meter.Int64Counter("provider.fetch_failures",
		metric.WithDescription("Failed provider fetches"))
	if err != nil {
		return nil, err
	}
	stationsScored, err := meter.Int64Counter("scorer.stations_scored",
		metric.WithDescription("Stations scored by the batch runner"))
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		cacheHits:      cacheHits,
		cacheMisses:    cacheMisses,
		fetchFailures:  fetchFailures,
		stationsScored: stationsScored,
	}, nil
}

// CacheHit records a raw cache hit.
func (m *PipelineMetrics) CacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1)
}

// CacheMiss records a raw cache miss.
func (m *PipelineMetrics) CacheMiss(ctx context.Context) {
	if m == nil {
		return
	}
	m.cacheMisses.Add(ctx, 1)
}

// FetchFailure records a failed provider fetch.
func (m *PipelineMetrics) FetchFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.fetchFailures.Add(ctx, 1)
}

// StationScored records one completed station.
func (m *PipelineMetrics) StationScored(ctx context.Context) {
	if m == nil {
		return
	}
	m.stationsScored.Add(ctx, 1)
}
