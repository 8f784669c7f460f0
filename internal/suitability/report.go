package suitability

import (
	"fmt"
	"strings"
)

const yearsPerWarningLine = 5

// Report accumulates per-station data-quality warnings: years whose fetch
// failed outright (excluded from statistics) and years whose daily record
// stops before December 31 (included, but flagged). Reports never interrupt a
// run; they are logged and surfaced after the fact.
type Report struct {
	StationID       string
	FailureYears    []int
	IncompleteYears []int
}

// Empty reports whether there is anything to warn about.
func (r Report) Empty() bool {
	return len(r.FailureYears) == 0 && len(r.IncompleteYears) == 0
}

// Message renders the warning text, five years per line.
func (r Report) Message() string {
	if r.Empty() {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "station %s", r.StationID)
	if len(r.FailureYears) > 0 {
		sb.WriteString("\nfailure years:\n")
		writeYearLines(&sb, r.FailureYears)
	}
	if len(r.IncompleteYears) > 0 {
		sb.WriteString("\nuncompleted years:\n")
		writeYearLines(&sb, r.IncompleteYears)
	}
	return sb.String()
}

func writeYearLines(sb *strings.Builder, years []int) {
	for i, y := range years {
		sb.WriteString(fmt.Sprintf("%d", y))
		if i == len(years)-1 {
			break
		}
		if (i+1)%yearsPerWarningLine == 0 {
			sb.WriteString(",\n")
		} else {
			sb.WriteString(", ")
		}
	}
}
