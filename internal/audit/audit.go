package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/store"
)

// FileName is the audit log name inside the artifacts directory.
const FileName = "predictions_log.jsonl"

// Record is one line of the audit log.
type Record struct {
	TS     string  `json:"ts"`
	Score  float64 `json:"score"`
	NChars int     `json:"n_chars"`
}

// Mirror receives a copy of every record. *store.DB satisfies it.
type Mirror interface {
	InsertPrediction(ctx context.Context, p store.Prediction) error
}

// Logger appends prediction records to a JSONL file.
// It is safe for concurrent use.
type Logger struct {
	path   string
	mirror Mirror
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

func New(path string, mirror Mirror, logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{
		path:   path,
		mirror: mirror,
		logger: logger,
		now:    time.Now,
	}
}

func (l *Logger) Path() string {
	return l.path
}

// Record appends one line for text and score and mirrors it when a mirror is set.
func (l *Logger) Record(ctx context.Context, text string, score float64) error {
	ts := l.now().UTC()
	rec := Record{
		TS:     ts.Format(time.RFC3339Nano),
		Score:  score,
		NChars: utf8.RuneCountInString(text),
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}

	if err := l.append(append(line, '\n')); err != nil {
		return err
	}

	if l.mirror != nil {
		if err := l.mirror.InsertPrediction(ctx, store.Prediction{TS: ts, Score: score, NChars: rec.NChars}); err != nil {
			return fmt.Errorf("mirror audit record: %w", err)
		}
	}

	return nil
}

func (l *Logger) append(line []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}

	return nil
}

// Log records the prediction and reports whether it succeeded. Failures are
// logged at warn level and never returned.
func (l *Logger) Log(ctx context.Context, text string, score float64) bool {
	if l == nil {
		return false
	}
	if err := l.Record(ctx, text, score); err != nil {
		l.logger.Warn("audit record failed",
			zap.String("path", l.path),
			zap.Float64("score", score),
			zap.Error(err),
		)
		return false
	}
	return true
}
