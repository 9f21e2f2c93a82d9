package training

import (
	"errors"
	"reflect"
	"testing"
)

func TestStratifiedSplit(t *testing.T) {
	t.Parallel()

	labels := []int{1, 0, 1, 0, 1, 0, 1, 0, 1, 0}
	split, err := StratifiedSplit(labels, 0.2, 42)
	if err != nil {
		t.Fatalf("split: %v", err)
	}

	if len(split.Test) != 2 || len(split.Train) != 8 {
		t.Fatalf("expected 8/2 split, got %d/%d", len(split.Train), len(split.Test))
	}

	testLabels := map[int]int{}
	for _, row := range split.Test {
		testLabels[labels[row]]++
	}
	if testLabels[0] != 1 || testLabels[1] != 1 {
		t.Fatalf("expected one test row per class, got %v", testLabels)
	}

	seen := map[int]bool{}
	for _, row := range append(append([]int{}, split.Train...), split.Test...) {
		if seen[row] {
			t.Fatalf("row %d appears twice", row)
		}
		seen[row] = true
	}
	if len(seen) != len(labels) {
		t.Fatalf("expected every row to be assigned, got %d", len(seen))
	}

	again, err := StratifiedSplit(labels, 0.2, 42)
	if err != nil {
		t.Fatalf("split again: %v", err)
	}
	if !reflect.DeepEqual(split, again) {
		t.Fatalf("same seed gave different splits: %v vs %v", split, again)
	}
}

func TestStratifiedSplitClampsTestRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		labels   []int
		testSize float64
		wantTest int
	}{
		{name: "rounds down to zero but keeps one", labels: []int{1, 1, 0, 0}, testSize: 0.2, wantTest: 2},
		{name: "rounds up to n but keeps one for training", labels: []int{1, 1, 0, 0}, testSize: 0.9, wantTest: 2},
		{name: "rounds half away from zero", labels: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0}, testSize: 0.25, wantTest: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			split, err := StratifiedSplit(tt.labels, tt.testSize, 1)
			if err != nil {
				t.Fatalf("split: %v", err)
			}
			if len(split.Test) != tt.wantTest {
				t.Fatalf("expected %d test rows, got %d", tt.wantTest, len(split.Test))
			}
		})
	}
}

func TestStratifiedSplitErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		labels   []int
		testSize float64
		wantErr  error
	}{
		{name: "single example class", labels: []int{1, 0, 0}, testSize: 0.2, wantErr: ErrInsufficientData},
		{name: "single class", labels: []int{1, 1, 1}, testSize: 0.2, wantErr: ErrInsufficientData},
		{name: "empty", labels: nil, testSize: 0.2, wantErr: ErrInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := StratifiedSplit(tt.labels, tt.testSize, 1); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := StratifiedSplit([]int{1, 1, 0, 0}, 1.5, 1); err == nil {
		t.Fatalf("expected error for invalid test size")
	}
}
