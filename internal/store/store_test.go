package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "nested", FileName))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	if err := Migrate(db.Pool); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var v int
	if err := db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		t.Fatalf("user_version: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected schema version 1, got %d", v)
	}
}

func TestTrainingRunsRoundTrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := db.InsertTrainingRun(ctx, TrainingRun{
		StartedAt:    base,
		FinishedAt:   base.Add(time.Second),
		F1:           0.5,
		ROCAUC:       math.NaN(),
		NTrain:       8,
		NTest:        2,
		ArtifactPath: "artifacts/model.json",
	})
	if err != nil {
		t.Fatalf("insert first: %v", err)
	}
	if first == "" {
		t.Fatalf("expected generated id")
	}

	if _, err := db.InsertTrainingRun(ctx, TrainingRun{
		ID:         "second",
		StartedAt:  base.Add(time.Hour),
		FinishedAt: base.Add(time.Hour + time.Second),
		F1:         0.75,
		ROCAUC:     0.9,
		NTrain:     16,
		NTest:      4,
	}); err != nil {
		t.Fatalf("insert second: %v", err)
	}

	runs, err := db.ListTrainingRuns(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "second" || runs[0].ROCAUC != 0.9 || runs[0].NTest != 4 {
		t.Fatalf("unexpected latest run: %+v", runs[0])
	}
	if runs[1].ID != first || !math.IsNaN(runs[1].ROCAUC) {
		t.Fatalf("expected NaN AUC to survive the round trip, got %+v", runs[1])
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Fatalf("unexpected start time %v", runs[1].StartedAt)
	}

	latest, ok, err := db.LatestTrainingRun(ctx)
	if err != nil || !ok || latest.ID != "second" {
		t.Fatalf("unexpected latest run: %+v ok=%v err=%v", latest, ok, err)
	}
}

func TestLatestTrainingRunEmpty(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	_, ok, err := db.LatestTrainingRun(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if ok {
		t.Fatalf("expected no runs")
	}
}

func TestPredictions(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	for _, score := range []float64{0.2, 0.6} {
		if err := db.InsertPrediction(ctx, Prediction{TS: time.Now(), Score: score, NChars: 10}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	stats, err := db.PredictionStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Count != 2 || math.Abs(stats.MeanScore-0.4) > 1e-9 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
