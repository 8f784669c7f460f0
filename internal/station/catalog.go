package station

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CatalogHeader is the column header of a full 12-column station catalog.
const CatalogHeader = "ID,NAME,PROVINCE,LATITUDE,LONGITUDE,ELEVATION," +
	"HOURLY_FIRST_DAY,HOURLY_LAST_DAY,DAILY_FIRST_DAY,DAILY_LAST_DAY," +
	"MONTHLY_FIRST_DAY,MONTHLY_LAST_DAY"

const catalogDateLayout = "2006-01-02"

// nullField marks an absent availability date in catalog files.
const nullField = "null"

// LoadCatalog reads stations from a CSV catalog. Rows may carry 12 columns
// (identity plus availability windows) or 6 columns (identity only, leaving
// availability to be resolved lazily). Malformed rows are skipped.
//
// The catalog is supplied by the GIS collaborator already filtered to the
// study boundary; no geometric filtering happens here.
func LoadCatalog(path string) ([]*Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open station catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// Header.
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read station catalog header: %w", err)
	}

	var stations []*Station
	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		s, ok := stationFromRow(row)
		if !ok {
			continue
		}
		stations = append(stations, s)
	}
	return stations, nil
}

// SaveCatalog writes stations in the 12-column catalog format. Stations
// without resolved availability get null window fields.
func SaveCatalog(path string, stations []*Station) error {
	var sb strings.Builder
	sb.WriteString(CatalogHeader)
	sb.WriteByte('\n')
	for _, s := range stations {
		sb.WriteString(catalogRow(s))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write station catalog: %w", err)
	}
	return nil
}

func stationFromRow(row []string) (*Station, bool) {
	if len(row) < 6 || strings.TrimSpace(row[0]) == "" {
		return nil, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return nil, false
	}
	elev, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil {
		return nil, false
	}

	s := New(strings.TrimSpace(row[0]), strings.TrimSpace(row[1]), strings.TrimSpace(row[2]), lat, lon, elev)

	if len(row) >= 12 {
		s.SetAvailability(Availability{
			Hourly:  windowFromFields(IntervalHourly, row[6], row[7]),
			Daily:   windowFromFields(IntervalDaily, row[8], row[9]),
			Monthly: windowFromFields(IntervalMonthly, row[10], row[11]),
		})
	}
	return s, true
}

func windowFromFields(interval Interval, first, last string) AvailabilityWindow {
	return NewAvailabilityWindow(interval, parseCatalogDate(first), parseCatalogDate(last))
}

func parseCatalogDate(field string) time.Time {
	field = strings.TrimSpace(field)
	if field == "" || strings.EqualFold(field, nullField) {
		return time.Time{}
	}
	// Catalogs produced by older tooling use month-first dates.
	for _, layout := range []string{catalogDateLayout, "1/2/2006"} {
		if t, err := time.Parse(layout, field); err == nil {
			return t
		}
	}
	return time.Time{}
}

func catalogRow(s *Station) string {
	fields := []string{
		s.ID,
		s.Name,
		s.Province,
		strconv.FormatFloat(s.Latitude, 'f', -1, 64),
		strconv.FormatFloat(s.Longitude, 'f', -1, 64),
		strconv.FormatFloat(s.Elevation, 'f', -1, 64),
	}
	for _, w := range []AvailabilityWindow{s.HourlyWindow(), s.DailyWindow(), s.MonthlyWindow()} {
		if !w.Available {
			fields = append(fields, nullField, nullField)
			continue
		}
		fields = append(fields,
			w.FirstDate.Format(catalogDateLayout),
			w.LastDate.Format(catalogDateLayout))
	}
	return strings.Join(fields, ",")
}
