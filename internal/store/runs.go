package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// TrainingRun is one finished training invocation.
type TrainingRun struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	F1           float64   `json:"f1"`
	ROCAUC       float64   `json:"roc_auc"`
	NTrain       int       `json:"n_train"`
	NTest        int       `json:"n_test"`
	ArtifactPath string    `json:"artifact_path"`
}

// InsertTrainingRun stores run. An empty ID is replaced by a new UUID.
// A NaN ROC AUC is stored as NULL.
func (d *DB) InsertTrainingRun(ctx context.Context, run TrainingRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	var auc sql.NullFloat64
	if !math.IsNaN(run.ROCAUC) {
		auc = sql.NullFloat64{Float64: run.ROCAUC, Valid: true}
	}

	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO training_runs (id, started_at, finished_at, f1, roc_auc, n_train, n_test, artifact_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.F1,
		auc,
		run.NTrain,
		run.NTest,
		run.ArtifactPath,
	)
	if err != nil {
		return "", fmt.Errorf("insert training run: %w", err)
	}

	return run.ID, nil
}

// ListTrainingRuns returns up to limit runs, most recent first.
func (d *DB) ListTrainingRuns(ctx context.Context, limit int) ([]TrainingRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, started_at, finished_at, f1, roc_auc, n_train, n_test, artifact_path
FROM training_runs
ORDER BY finished_at DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list training runs: %w", err)
	}
	defer rows.Close()

	var out []TrainingRun
	for rows.Next() {
		var (
			run               TrainingRun
			started, finished string
			auc               sql.NullFloat64
		)
		if err := rows.Scan(&run.ID, &started, &finished, &run.F1, &auc, &run.NTrain, &run.NTest, &run.ArtifactPath); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("run %s: %w", run.ID, err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("run %s: %w", run.ID, err)
		}
		run.ROCAUC = math.NaN()
		if auc.Valid {
			run.ROCAUC = auc.Float64
		}
		out = append(out, run)
	}

	return out, rows.Err()
}

// LatestTrainingRun returns the most recent run or false when there is none.
func (d *DB) LatestTrainingRun(ctx context.Context) (TrainingRun, bool, error) {
	runs, err := d.ListTrainingRuns(ctx, 1)
	if err != nil {
		return TrainingRun{}, false, err
	}
	if len(runs) == 0 {
		return TrainingRun{}, false, nil
	}
	return runs[0], true, nil
}

// ErrNoStore is returned when the history store is disabled.
var ErrNoStore = errors.New("history store is not configured")
