// Package rawcache provides the file-backed cache for raw provider records,
// keyed by (station, interval, year, month). Entries are fetched at most once
// and never invalidated; an empty payload is cached too (negative caching),
// so a permanently data-less period costs one network call, ever. Periods
// that gain data later will not be refreshed without wiping the cache file;
// that staleness is accepted.
package rawcache

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/orchardscore/orchardscore/internal/station"
	"github.com/orchardscore/orchardscore/internal/telemetry"
)

// Provider payloads open with a fixed block of station metadata before the
// column-header line: line 26 for daily bulk files, line 17 for hourly.
var headerLine = map[station.Interval]int{
	station.IntervalHourly:  17,
	station.IntervalDaily:   26,
	station.IntervalMonthly: 26,
}

// recognizedHeader marks a real data payload; anything else (HTML error
// pages, "no data" notices) is normalized to an empty payload.
const recognizedHeader = "station name"

// Fetcher is the remote data collaborator.
type Fetcher interface {
	FetchRawRecords(ctx context.Context, stationID string, year, month int, interval station.Interval) (string, error)
}

// Config holds cache construction parameters. Passed explicitly; there is
// no process-wide cache path.
type Config struct {
	// Dir is the cache root directory.
	Dir string

	// Logger for cache operations.
	Logger zerolog.Logger

	// Metrics records hit/miss/failure counters. Optional.
	Metrics *telemetry.PipelineMetrics
}

// Cache is the fetch-or-read raw record cache.
type Cache struct {
	store   *Store
	fetcher Fetcher
	logger  zerolog.Logger
	metrics *telemetry.PipelineMetrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a cache backed by the store directory in cfg.
func New(cfg Config, fetcher Fetcher) *Cache {
	return &Cache{
		store:   NewStore(cfg.Dir),
		fetcher: fetcher,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Get returns the normalized payload for the key, fetching and caching it on
// first use. On a hit the stored text is returned verbatim with no
// re-validation. Fetch errors are returned without writing a cache entry, so
// a transient failure never poisons the key.
//
// Distinct keys may be requested concurrently; requests for the same key are
// serialized so the network is hit at most once per key.
func (c *Cache) Get(ctx context.Context, stationID string, interval station.Interval, year, month int) (string, error) {
	lock := c.keyLock(c.store.Path(stationID, interval, year, month))
	lock.Lock()
	defer lock.Unlock()

	if c.store.Exists(stationID, interval, year, month) {
		c.metrics.CacheHit(ctx)
		return c.store.Read(stationID, interval, year, month)
	}
	c.metrics.CacheMiss(ctx)

	c.logger.Debug().
		Str("station", stationID).
		Stringer("interval", interval).
		Int("year", year).
		Int("month", month).
		Msg("cache miss, fetching from provider")

	payload, err := c.fetcher.FetchRawRecords(ctx, stationID, year, month, interval)
	if err != nil {
		c.metrics.FetchFailure(ctx)
		return "", err
	}

	normalized := normalize(payload, interval)
	if err := c.store.Write(stationID, interval, year, month, normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// GetAnnualHourly aggregates the twelve monthly hourly payloads of a year,
// keeping the data-header line from the first non-empty month only. The
// context is checked between monthly fetches so long runs can be cancelled.
func (c *Cache) GetAnnualHourly(ctx context.Context, stationID string, year int) (string, error) {
	var sb strings.Builder
	wroteHeader := false
	for month := 1; month <= 12; month++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		payload, err := c.Get(ctx, stationID, station.IntervalHourly, year, month)
		if err != nil {
			return "", err
		}
		if payload == "" {
			continue
		}
		if wroteHeader {
			payload = dropFirstLine(payload)
			if payload == "" {
				continue
			}
		}
		wroteHeader = true
		sb.WriteString(payload)
		if !strings.HasSuffix(payload, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

func (c *Cache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

// normalize strips provider boilerplate from a raw payload. A payload whose
// first line lacks the recognized header is the provider's way of saying "no
// data for this period" and becomes the empty string, which is still cached.
func normalize(payload string, interval station.Interval) string {
	lines := strings.Split(strings.ReplaceAll(payload, "\r\n", "\n"), "\n")
	if len(lines) == 0 || !strings.Contains(strings.ToLower(lines[0]), recognizedHeader) {
		return ""
	}

	skip := headerLine[interval] - 1
	if skip >= len(lines) {
		return ""
	}
	kept := strings.Join(lines[skip:], "\n")
	if strings.TrimSpace(kept) == "" {
		return ""
	}
	return kept
}

func dropFirstLine(payload string) string {
	if i := strings.IndexByte(payload, '\n'); i >= 0 {
		return payload[i+1:]
	}
	return ""
}
