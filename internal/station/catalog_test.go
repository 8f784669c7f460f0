package station_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardscore/orchardscore/internal/station"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog_FullRows(t *testing.T) {
	path := writeCatalog(t, station.CatalogHeader+"\n"+
		"4905,MOOSE JAW,SK,50.33,-105.55,577,1953-01-01,2014-12-31,1950-06-01,2014-12-31,null,null\n")

	stations, err := station.LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, stations, 1)

	s := stations[0]
	assert.Equal(t, "4905", s.ID)
	assert.Equal(t, "MOOSE JAW", s.Name)
	assert.Equal(t, "SK", s.Province)
	assert.InDelta(t, -105.55, s.Longitude, 1e-9)

	assert.True(t, s.Resolved())
	assert.True(t, s.DailyWindow().Available)
	assert.True(t, s.HourlyWindow().Available)
	assert.False(t, s.MonthlyWindow().Available)
	assert.True(t, s.AvailableForYear(1960))
}

func TestLoadCatalog_IdentityOnlyRows(t *testing.T) {
	path := writeCatalog(t, "ID,NAME,PROVINCE,LATITUDE,LONGITUDE,ELEVATION\n"+
		"1234,DELHI CDA,ON,42.87,-80.55,231.6\n")

	stations, err := station.LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, stations, 1)

	// Six-column rows leave availability unresolved for lazy lookup.
	assert.False(t, stations[0].Resolved())
	assert.False(t, stations[0].AvailableForYear(2000))
}

func TestLoadCatalog_SkipsMalformedRows(t *testing.T) {
	path := writeCatalog(t, station.CatalogHeader+"\n"+
		",MISSING ID,ON,42.0,-80.0,100,null,null,null,null,null,null\n"+
		"2001,BAD LATITUDE,ON,not-a-number,-80.0,100,null,null,null,null,null,null\n"+
		"2002,GOOD,ON,43.1,-80.2,150,null,null,1980-01-01,2010-12-31,null,null\n")

	stations, err := station.LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "2002", stations[0].ID)
}

func TestCatalog_RoundTrip(t *testing.T) {
	s := station.New("7042", "ST HUBERT A", "QC", 45.52, -73.42, 27.4)
	s.SetAvailability(station.Availability{
		Daily: station.NewAvailabilityWindow(station.IntervalDaily, date(1970, 1, 1), date(2013, 6, 30)),
	})

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, station.SaveCatalog(path, []*station.Station{s}))

	loaded, err := station.LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Name, got.Name)
	assert.False(t, got.HourlyWindow().Available)
	require.True(t, got.DailyWindow().Available)
	assert.Equal(t, date(1970, 1, 1), got.DailyWindow().FirstDate)
	assert.Equal(t, date(2013, 6, 30), got.DailyWindow().LastDate)
}
