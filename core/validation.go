package core

import (
	"fmt"
	"math"
)

// ValidateMetrics checks that the metric list is non-empty and every entry
// names a known metric. Bound columns such as incidence_rate_lo are accepted.
func ValidateMetrics(metrics []Metric) error {
	if len(metrics) == 0 {
		return ErrNoMetrics
	}
	for _, m := range metrics {
		if !KnownMetric(m) {
			return fmt.Errorf("%w: %s", ErrUnknownMetric, m)
		}
	}
	return nil
}

// ValidateFilter checks the structural validity of a filter: condition
// metrics must be known, operators supported, and the year range ordered.
func ValidateFilter(f Filter) error {
	if f.Years.From != 0 && f.Years.To != 0 && f.Years.From > f.Years.To {
		return fmt.Errorf("year range inverted: %d > %d", f.Years.From, f.Years.To)
	}
	for _, c := range f.Conditions {
		if !KnownMetric(c.Metric) {
			return fmt.Errorf("%w: %s", ErrUnknownMetric, c.Metric)
		}
		if !c.Op.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidOp, c.Op)
		}
		if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
			return fmt.Errorf("condition on %s has non-finite value", c.Metric)
		}
	}
	return nil
}

// ValidateVector rejects vectors that would poison similarity scores.
func ValidateVector(vec []float64) error {
	if len(vec) == 0 {
		return fmt.Errorf("vector cannot be empty")
	}
	for i, v := range vec {
		if math.IsNaN(v) {
			return fmt.Errorf("vector contains NaN at position %d", i)
		}
		if math.IsInf(v, 0) {
			return fmt.Errorf("vector contains infinity at position %d", i)
		}
	}
	return nil
}
