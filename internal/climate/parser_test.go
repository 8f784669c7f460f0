package climate_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardscore/orchardscore/internal/climate"
)

func dailyRow(date, max, min, ave string) string {
	return fmt.Sprintf(`"%s","","","","","%s","","%s","","%s"`, date, max, min, ave)
}

func hourlyRow(ts, temp string) string {
	return fmt.Sprintf(`"%s","","","","","","%s"`, ts, temp)
}

func dailyText(rows ...string) string {
	header := `"Date/Time","Year","Month","Day","Data Quality","Max Temp","Max Flag","Min Temp","Min Flag","Mean Temp"`
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

func hourlyText(rows ...string) string {
	header := `"Date/Time","Year","Month","Day","Time","Data Quality","Temp"`
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestParseDailyRecords(t *testing.T) {
	records := climate.ParseDailyRecords(dailyText(
		dailyRow("2010-05-01", "12.5", "3.0", "7.8"),
		dailyRow("2010-05-02", "10.0", "", "5.0"),   // missing min
		dailyRow("not-a-date", "10.0", "1.0", "5.0"), // skipped
		dailyRow("2010-05-03", "-99", "99", "99"),    // sentinel noise
	))

	require.Len(t, records, 3)

	first := records[0]
	assert.True(t, first.HasValue())
	assert.Equal(t, 3.0, *first.Min)
	assert.Equal(t, 12.5, *first.Max)
	assert.Equal(t, 7.8, *first.Ave)

	assert.False(t, records[1].HasValue())
	assert.False(t, records[2].HasValue())
}

func TestParseDailyRecords_SwapsInvertedMinMax(t *testing.T) {
	records := climate.ParseDailyRecords(dailyText(
		dailyRow("2010-05-01", "-4.0", "6.0", "1.0"),
	))

	require.Len(t, records, 1)
	require.True(t, records[0].HasValue())
	assert.LessOrEqual(t, *records[0].Min, *records[0].Max)
	assert.Equal(t, -4.0, *records[0].Min)
	assert.Equal(t, 6.0, *records[0].Max)
}

func TestParseHourlyRecords(t *testing.T) {
	records := climate.ParseHourlyRecords(hourlyText(
		hourlyRow("2010-05-01 00:00", "4.2"),
		hourlyRow("2010-05-01 01:00", ""), // empty reading still counts as a point
		hourlyRow("garbage", "1.0"),
	))

	require.Len(t, records, 2)
	assert.True(t, records[0].HasValue())
	assert.Equal(t, 4.2, *records[0].Temperature)
	assert.False(t, records[1].HasValue())
}

func TestParseDailyRecords_EmptyPayload(t *testing.T) {
	assert.Empty(t, climate.ParseDailyRecords(""))
	assert.Empty(t, climate.ParseHourlyRecords(""))
}
