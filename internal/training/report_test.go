package training

import (
	"math"
	"path/filepath"
	"testing"
)

func TestReportRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ReportFileName)
	if err := WriteReport(path, 0.8125, math.NaN(), "classes\n"); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, ok, err := ReadReport(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !ok {
		t.Fatalf("expected report to exist")
	}
	if report.F1 != 0.812 && report.F1 != 0.813 {
		t.Fatalf("unexpected F1 %v", report.F1)
	}
	if !math.IsNaN(report.ROCAUC) {
		t.Fatalf("expected NaN ROC AUC, got %v", report.ROCAUC)
	}
	if report.Raw == "" {
		t.Fatalf("expected raw report text")
	}
}

func TestParseReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantF1  float64
		wantAUC float64
	}{
		{name: "regular", raw: "F1: 0.500\nROC AUC: 0.750\n\nrest", wantF1: 0.5, wantAUC: 0.75},
		{name: "lowercase keys", raw: "f1: 0.25\nroc auc: 1.0\n", wantF1: 0.25, wantAUC: 1},
		{name: "python nan", raw: "F1: 0.000\nROC AUC: nan\n", wantF1: 0, wantAUC: math.NaN()},
		{name: "garbage", raw: "F1: n/a\n", wantF1: math.NaN(), wantAUC: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseReport(tt.raw)
			if !sameFloat(got.F1, tt.wantF1) || !sameFloat(got.ROCAUC, tt.wantAUC) {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tt.wantF1, tt.wantAUC, got.F1, got.ROCAUC)
			}
		})
	}
}

func TestReadReportMissing(t *testing.T) {
	t.Parallel()

	_, ok, err := ReadReport(filepath.Join(t.TempDir(), ReportFileName))
	if err != nil || ok {
		t.Fatalf("expected missing report without error, ok=%v err=%v", ok, err)
	}
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}
