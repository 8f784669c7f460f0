package station

import (
	"context"
	"strings"
)

// CatalogLookup resolves availability by station name from an already-loaded
// reference catalog. It backs lazy resolution for identity-only catalog rows
// when a fully resolved catalog exists alongside; the provider's own
// name-search page stays outside this module.
type CatalogLookup struct {
	byName map[string]map[string]Availability
}

// NewCatalogLookup indexes the resolved stations of a catalog by name.
// Unresolved stations are ignored.
func NewCatalogLookup(stations []*Station) *CatalogLookup {
	byName := make(map[string]map[string]Availability)
	for _, s := range stations {
		if !s.Resolved() {
			continue
		}
		key := lookupKey(s.Name)
		if byName[key] == nil {
			byName[key] = make(map[string]Availability)
		}
		byName[key][s.ID] = Availability{
			Hourly:  s.HourlyWindow(),
			Daily:   s.DailyWindow(),
			Monthly: s.MonthlyWindow(),
		}
	}
	return &CatalogLookup{byName: byName}
}

// LookupAvailability returns the availability of every catalog station
// sharing the name. Station names are not unique across provinces, so the
// caller picks its own ID out of the result.
func (l *CatalogLookup) LookupAvailability(_ context.Context, name string) (map[string]Availability, error) {
	found, ok := l.byName[lookupKey(name)]
	if !ok {
		return nil, ErrStationNotFound
	}
	return found, nil
}

func lookupKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
