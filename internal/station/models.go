// Package station provides weather-station identity, metadata, and
// per-interval data-availability windows.
package station

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Station errors.
var (
	// ErrStationNotFound is returned when an availability lookup finds no
	// entry for the station.
	ErrStationNotFound = errors.New("station not found")
)

// Interval is the granularity of a climate record. The numeric values match
// the provider's timeframe codes used in bulk-data requests.
type Interval int

const (
	IntervalHourly  Interval = 1
	IntervalDaily   Interval = 2
	IntervalMonthly Interval = 3
)

// String returns the lowercase interval name, used in cache paths and logs.
func (i Interval) String() string {
	switch i {
	case IntervalHourly:
		return "hourly"
	case IntervalDaily:
		return "daily"
	case IntervalMonthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// TimeframeCode returns the provider's numeric timeframe parameter.
func (i Interval) TimeframeCode() int { return int(i) }

// AvailabilityWindow is the date range for which a station has records at a
// given interval. Invariant: Available implies FirstDate <= LastDate.
type AvailabilityWindow struct {
	Interval  Interval
	Available bool
	FirstDate time.Time
	LastDate  time.Time
}

// NewAvailabilityWindow builds a window for the given interval.
// The zero value of either date marks the window unavailable.
func NewAvailabilityWindow(interval Interval, first, last time.Time) AvailabilityWindow {
	if first.IsZero() || last.IsZero() {
		return AvailabilityWindow{Interval: interval}
	}
	if last.Before(first) {
		first, last = last, first
	}
	return AvailabilityWindow{
		Interval:  interval,
		Available: true,
		FirstDate: first,
		LastDate:  last,
	}
}

// ContainsYear reports whether the whole calendar year lies inside the
// recorded window. Partial boundary years are excluded even when their year
// number is in range.
func (w AvailabilityWindow) ContainsYear(year int) bool {
	if !w.Available {
		return false
	}
	if w.FirstDate.Year() > year || w.LastDate.Year() < year {
		return false
	}
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	dec31 := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return !jan1.Before(w.FirstDate) && !dec31.After(w.LastDate)
}

// Availability groups the three interval windows of one station.
type Availability struct {
	Hourly  AvailabilityWindow
	Daily   AvailabilityWindow
	Monthly AvailabilityWindow
}

// AvailabilityLookup resolves availability windows by station name against
// the remote provider's station search. The HTML mechanics live behind this
// boundary; implementations return one entry per matching station.
type AvailabilityLookup interface {
	LookupAvailability(ctx context.Context, name string) (map[string]Availability, error)
}

// Station is a weather-observation site with a stable identifier and
// location metadata. Instances are constructed from a catalog row and are
// immutable except for the one-time availability resolution.
type Station struct {
	ID        string
	Name      string
	Province  string
	Latitude  float64
	Longitude float64
	Elevation float64

	mu           sync.Mutex
	resolved     bool
	availability Availability
}

// New creates a station with identity only; availability must be resolved
// before year filtering.
func New(id, name, province string, lat, lon, elevation float64) *Station {
	return &Station{
		ID:        id,
		Name:      name,
		Province:  province,
		Latitude:  lat,
		Longitude: lon,
		Elevation: elevation,
	}
}

// SetAvailability records windows known at construction time (12-column
// catalog rows) and marks the station resolved.
func (s *Station) SetAvailability(a Availability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availability = a
	s.resolved = true
}

// ResolveAvailability fetches availability windows through the lookup.
// It runs at most once per station instance: repeated calls, including calls
// after a failed lookup, never hit the collaborator again.
func (s *Station) ResolveAvailability(ctx context.Context, lookup AvailabilityLookup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		return nil
	}
	s.resolved = true

	found, err := lookup.LookupAvailability(ctx, s.Name)
	if err != nil {
		return err
	}
	a, ok := found[s.ID]
	if !ok {
		return ErrStationNotFound
	}
	s.availability = a
	return nil
}

// Resolved reports whether availability has been set or looked up.
func (s *Station) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// HourlyWindow returns the hourly availability window.
func (s *Station) HourlyWindow() AvailabilityWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availability.Hourly
}

// DailyWindow returns the daily availability window.
func (s *Station) DailyWindow() AvailabilityWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availability.Daily
}

// MonthlyWindow returns the monthly availability window.
func (s *Station) MonthlyWindow() AvailabilityWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availability.Monthly
}

// AvailableForYear reports whether either the daily or hourly window covers
// the whole calendar year.
func (s *Station) AvailableForYear(year int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availability.Daily.ContainsYear(year) || s.availability.Hourly.ContainsYear(year)
}

// AvailableForRange reports whether any year in [startYear, endYear] is
// covered.
func (s *Station) AvailableForRange(startYear, endYear int) bool {
	for year := startYear; year <= endYear; year++ {
		if s.AvailableForYear(year) {
			return true
		}
	}
	return false
}
