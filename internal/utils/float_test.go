package utils

import (
	"math"
	"testing"
)

func TestNullableFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   float64
		wantNil bool
	}{
		{name: "regular value", input: 0.75},
		{name: "zero", input: 0},
		{name: "nan", input: math.NaN(), wantNil: true},
		{name: "infinity", input: math.Inf(1), wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NullableFloat(tt.input)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil || *got != tt.input {
				t.Fatalf("expected %v, got %v", tt.input, got)
			}
		})
	}
}

func TestFormatMetric(t *testing.T) {
	t.Parallel()

	if got := FormatMetric(0.8125); got != "0.812" && got != "0.813" {
		t.Fatalf("unexpected formatting %q", got)
	}
	if got := FormatMetric(math.NaN()); got != "n/a" {
		t.Fatalf("expected n/a, got %q", got)
	}
}
