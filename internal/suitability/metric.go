package suitability

import "strconv"

// Metric is a computed statistic that may be missing. Missing is a tagged
// state, never a magic numeric value, so extreme real temperatures can never
// be mistaken for absent data. A missing metric renders as the empty string.
type Metric struct {
	value float64
	valid bool
}

// Value wraps a computed number.
func Value(v float64) Metric {
	return Metric{value: v, valid: true}
}

// Count wraps an integer-valued statistic.
func Count(n int) Metric {
	return Metric{value: float64(n), valid: true}
}

// Missing is the absent-data result.
func Missing() Metric {
	return Metric{}
}

// IsMissing reports whether the metric carries no value.
func (m Metric) IsMissing() bool {
	return !m.valid
}

// Float returns the value and whether one is present.
func (m Metric) Float() (float64, bool) {
	return m.value, m.valid
}

// Exceeds reports whether the metric is present and strictly above threshold.
func (m Metric) Exceeds(threshold float64) bool {
	return m.valid && m.value > threshold
}

// String renders the metric for output rows; missing becomes "".
func (m Metric) String() string {
	if !m.valid {
		return ""
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}
