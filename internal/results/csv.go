package results

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/orchardscore/orchardscore/internal/suitability"
)

// Cells renders a criteria row in output column order: stationId, one value
// per year, then the verdict and extra columns when the criterion carries
// them. Missing values render as empty cells.
func Cells(row suitability.CriteriaRow) []string {
	cells := make([]string, 0, len(row.Values)+3)
	cells = append(cells, row.StationID)
	for _, v := range row.Values {
		cells = append(cells, v.String())
	}
	if !row.Verdict.IsMissing() {
		cells = append(cells, row.Verdict.String())
	}
	if !row.Extra.IsMissing() {
		cells = append(cells, row.Extra.String())
	}
	return cells
}

// WriteCSV writes one criterion's rows to w with a header derived from the
// first row. Rows for the same criterion share a shape, so the header holds
// for all of them.
func WriteCSV(w io.Writer, rows []suitability.CriteriaRow) error {
	if len(rows) == 0 {
		return nil
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header(rows[0])); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(Cells(row)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func header(row suitability.CriteriaRow) []string {
	cells := make([]string, 0, len(row.Years)+3)
	cells = append(cells, "stationId")
	for _, y := range row.Years {
		cells = append(cells, fmt.Sprintf("value_%d", y))
	}
	if !row.Verdict.IsMissing() {
		cells = append(cells, "verdict")
	}
	if !row.Extra.IsMissing() {
		cells = append(cells, "extra")
	}
	return cells
}
