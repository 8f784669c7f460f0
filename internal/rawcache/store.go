package rawcache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/orchardscore/orchardscore/internal/station"
)

// Store is the file-backed cache storage. Entries live under
// <dir>/<stationID>/<interval>/<year>[_<month>].csv; directories are created
// lazily on first write. Presence of a file is a cache hit regardless of its
// content, including empty content.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the cache file path for a key. Daily and monthly keys collapse
// the month component: the provider returns the whole year for those
// intervals no matter which month is requested.
func (s *Store) Path(stationID string, interval station.Interval, year, month int) string {
	name := fmt.Sprintf("%d.csv", year)
	if interval == station.IntervalHourly {
		name = fmt.Sprintf("%d_%d.csv", year, month)
	}
	return filepath.Join(s.dir, stationID, interval.String(), name)
}

// Exists reports whether the key is cached.
func (s *Store) Exists(stationID string, interval station.Interval, year, month int) bool {
	_, err := os.Stat(s.Path(stationID, interval, year, month))
	return err == nil
}

// Read returns the cached payload verbatim.
func (s *Store) Read(stationID string, interval station.Interval, year, month int) (string, error) {
	data, err := os.ReadFile(s.Path(stationID, interval, year, month))
	if err != nil {
		return "", fmt.Errorf("read cache entry: %w", err)
	}
	return string(data), nil
}

// Write stores a payload atomically: the text is written to a temp file in
// the destination directory and renamed into place, so concurrent readers
// never observe a partial entry.
func (s *Store) Write(stationID string, interval station.Interval, year, month int, text string) error {
	path := s.Path(stationID, interval, year, month)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish cache entry: %w", err)
	}
	return nil
}
