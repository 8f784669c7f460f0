package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/orchardscore/orchardscore/internal/suitability"
)

// Row is one persisted scoring result: a station's per-year values for one
// criterion, plus the trailing verdict/extra cells where the criterion has
// them. Missing cells are stored as empty strings, matching the CSV output.
type Row struct {
	RunID     uuid.UUID
	StationID string
	Criterion string
	Years     []int32
	Values    []string
	Verdict   string
	Extra     string
	CreatedAt time.Time
}

// FromCriteriaRow converts an aggregator row for persistence under a run.
func FromCriteriaRow(runID uuid.UUID, row suitability.CriteriaRow) Row {
	out := Row{
		RunID:     runID,
		StationID: row.StationID,
		Criterion: row.Criterion,
		Years:     make([]int32, len(row.Years)),
		Values:    make([]string, len(row.Values)),
		Verdict:   row.Verdict.String(),
		Extra:     row.Extra.String(),
		CreatedAt: time.Now().UTC(),
	}
	for i, y := range row.Years {
		out.Years[i] = int32(y)
	}
	for i, v := range row.Values {
		out.Values[i] = v.String()
	}
	return out
}
