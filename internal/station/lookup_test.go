package station_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardscore/orchardscore/internal/station"
)

func TestCatalogLookup(t *testing.T) {
	resolved := station.New("1234", "DELHI CDA", "ON", 42.8, -80.5, 231.0)
	resolved.SetAvailability(station.Availability{
		Daily: station.NewAvailabilityWindow(
			station.IntervalDaily,
			time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
		),
	})
	unresolved := station.New("5678", "SIMCOE", "ON", 42.9, -80.3, 240.0)

	lookup := station.NewCatalogLookup([]*station.Station{resolved, unresolved})

	found, err := lookup.LookupAvailability(context.Background(), "delhi cda")
	require.NoError(t, err)
	require.Contains(t, found, "1234")
	assert.True(t, found["1234"].Daily.ContainsYear(2000))

	_, err = lookup.LookupAvailability(context.Background(), "SIMCOE")
	assert.ErrorIs(t, err, station.ErrStationNotFound)

	// Resolution through the lookup fills the unresolved station.
	target := station.New("1234", "DELHI CDA", "ON", 42.8, -80.5, 231.0)
	require.NoError(t, target.ResolveAvailability(context.Background(), lookup))
	assert.True(t, target.AvailableForYear(2000))
}
