package utils

import (
	"math"
	"strconv"
)

// NullableFloat maps NaN and infinities to nil so they encode as JSON null.
func NullableFloat(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// FormatMetric renders a metric with three decimals, or "n/a" when undefined.
func FormatMetric(f float64) string {
	p := NullableFloat(f)
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'f', 3, 64)
}
