package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Prediction mirrors one audit record.
type Prediction struct {
	ID     string
	TS     time.Time
	Score  float64
	NChars int
}

func (d *DB) InsertPrediction(ctx context.Context, p Prediction) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO predictions (id, ts, score, n_chars)
VALUES (?, ?, ?, ?);
`, p.ID, p.TS.UTC().Format(time.RFC3339Nano), p.Score, p.NChars)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}

	return nil
}

// PredictionStats summarises mirrored predictions.
type PredictionStats struct {
	Count     int
	MeanScore float64
}

func (d *DB) PredictionStats(ctx context.Context) (PredictionStats, error) {
	var stats PredictionStats
	err := d.Pool.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(AVG(score), 0) FROM predictions;
`).Scan(&stats.Count, &stats.MeanScore)
	if err != nil {
		return PredictionStats{}, fmt.Errorf("prediction stats: %w", err)
	}
	return stats, nil
}
