package training

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/dataset"
	"github.com/spigell/decision-match/internal/labels"
	"github.com/spigell/decision-match/internal/model"
	"github.com/spigell/decision-match/internal/records"
	"github.com/spigell/decision-match/internal/store"
)

const (
	DefaultDataDir      = "data"
	DefaultArtifactsDir = "artifacts"
	DefaultTestSize     = 0.2
	DefaultSeed         = 42

	// LockFileName guards the artifacts directory against concurrent runs.
	LockFileName = ".train.lock"

	decisionThreshold = 0.5
)

var (
	// ErrInsufficientData is returned when a class has fewer than two examples.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrTrainingInProgress is returned when another run holds the artifacts lock.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// RunRecorder stores finished runs. *store.DB satisfies it.
type RunRecorder interface {
	InsertTrainingRun(ctx context.Context, run store.TrainingRun) (string, error)
}

type Options struct {
	DataDir      string
	ArtifactsDir string
	TestSize     float64
	Seed         *uint64 // nil means DefaultSeed, zero is a valid seed
	MaxIter      int
	MaxFeatures  int
	Vocabulary   *labels.Vocabulary
	Store        RunRecorder
	Logger       *zap.Logger
}

func (o *Options) setDefaults() {
	if o.DataDir == "" {
		o.DataDir = DefaultDataDir
	}
	if o.ArtifactsDir == "" {
		o.ArtifactsDir = DefaultArtifactsDir
	}
	if o.TestSize == 0 {
		o.TestSize = DefaultTestSize
	}
	if o.Seed == nil {
		seed := uint64(DefaultSeed)
		o.Seed = &seed
	}
	if o.Vocabulary == nil {
		o.Vocabulary = labels.Default()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Summary is what a training run reports back to the caller.
type Summary struct {
	RunID      string  `json:"run_id"`
	F1         float64 `json:"f1"`
	ROCAUC     float64 `json:"roc_auc"`
	NTrain     int     `json:"n_train"`
	NTest      int     `json:"n_test"`
	ModelPath  string  `json:"model_path"`
	ReportPath string  `json:"report_path"`
}

// Evaluation is a fitted pipeline with its held-out metrics.
type Evaluation struct {
	Pipeline       *model.Pipeline
	F1             float64
	ROCAUC         float64
	Classification string
	NTrain         int
	NTest          int
}

// TrainAndEvaluate loads the tables from DataDir, trains on a stratified
// split and writes the model and the report into ArtifactsDir, replacing
// the previous run. Nothing is written when any step fails.
func TrainAndEvaluate(ctx context.Context, opts Options) (Summary, error) {
	opts.setDefaults()
	logger := opts.Logger
	started := time.Now().UTC()

	if err := os.MkdirAll(opts.ArtifactsDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create artifacts directory: %w", err)
	}

	lock := flock.New(filepath.Join(opts.ArtifactsDir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("lock artifacts directory: %w", err)
	}
	if !locked {
		return Summary{}, ErrTrainingInProgress
	}
	defer lock.Unlock()

	tables, err := records.LoadTables(opts.DataDir)
	if err != nil {
		return Summary{}, err
	}

	logger.Info("loaded tables",
		zap.Int("jobs", tables.Jobs.Len()),
		zap.Int("applicants", tables.Applicants.Len()),
		zap.Int("prospects", tables.Prospects.Len()),
	)

	pairs, err := dataset.Build(ctx, tables, opts.Vocabulary, logger)
	if err != nil {
		return Summary{}, fmt.Errorf("build dataset: %w", err)
	}

	eval, err := Evaluate(ctx, pairs, opts)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		RunID:      uuid.NewString(),
		F1:         eval.F1,
		ROCAUC:     eval.ROCAUC,
		NTrain:     eval.NTrain,
		NTest:      eval.NTest,
		ModelPath:  filepath.Join(opts.ArtifactsDir, model.FileName),
		ReportPath: filepath.Join(opts.ArtifactsDir, ReportFileName),
	}

	if err := writeArtifacts(summary, eval); err != nil {
		return Summary{}, err
	}

	logger.Info("training finished",
		zap.String("run_id", summary.RunID),
		zap.Float64("f1", summary.F1),
		zap.Float64("roc_auc", summary.ROCAUC),
		zap.Int("n_train", summary.NTrain),
		zap.Int("n_test", summary.NTest),
	)

	if opts.Store != nil {
		_, err := opts.Store.InsertTrainingRun(ctx, store.TrainingRun{
			ID:           summary.RunID,
			StartedAt:    started,
			FinishedAt:   time.Now().UTC(),
			F1:           summary.F1,
			ROCAUC:       summary.ROCAUC,
			NTrain:       summary.NTrain,
			NTest:        summary.NTest,
			ArtifactPath: summary.ModelPath,
		})
		if err != nil {
			logger.Warn("recording training run", zap.String("run_id", summary.RunID), zap.Error(err))
		}
	}

	return summary, nil
}

// writeArtifacts stages the model and the report and renames both into
// place only when both were written.
func writeArtifacts(summary Summary, eval Evaluation) error {
	data, err := eval.Pipeline.Encode()
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	modelFile, err := model.Stage(summary.ModelPath, data)
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	defer modelFile.Discard()

	reportFile, err := model.Stage(summary.ReportPath, []byte(FormatReport(eval.F1, eval.ROCAUC, eval.Classification)))
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	defer reportFile.Discard()

	if err := model.CommitAll(modelFile, reportFile); err != nil {
		return fmt.Errorf("replace artifacts: %w", err)
	}
	return nil
}

// Evaluate splits pairs, fits a pipeline on the training partition and
// scores the test partition. It does not touch the filesystem.
func Evaluate(ctx context.Context, pairs []dataset.LabeledPair, opts Options) (Evaluation, error) {
	opts.setDefaults()

	texts, ys := dataset.Texts(pairs)
	split, err := StratifiedSplit(ys, opts.TestSize, *opts.Seed)
	if err != nil {
		return Evaluation{}, err
	}

	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}

	trainTexts, trainYs := pick(texts, ys, split.Train)
	testTexts, testYs := pick(texts, ys, split.Test)

	opts.Logger.Info("training", zap.Int("examples", len(trainTexts)))

	pipe := model.New(model.Options{MaxIter: opts.MaxIter, MaxFeatures: opts.MaxFeatures})
	if err := pipe.Fit(trainTexts, trainYs); err != nil {
		return Evaluation{}, fmt.Errorf("fit: %w", err)
	}

	opts.Logger.Debug("fitted",
		zap.Int("features", pipe.Vectorizer.Size()),
		zap.Int("iterations", pipe.Classifier.Iterations),
	)

	probs, err := pipe.PredictProba(testTexts)
	if err != nil {
		return Evaluation{}, fmt.Errorf("score test partition: %w", err)
	}
	preds := Threshold(probs, decisionThreshold)

	return Evaluation{
		Pipeline:       pipe,
		F1:             F1(testYs, preds),
		ROCAUC:         ROCAUC(testYs, probs),
		Classification: ClassificationReport(testYs, preds),
		NTrain:         len(trainTexts),
		NTest:          len(testTexts),
	}, nil
}

func pick(texts []string, ys []int, rows []int) ([]string, []int) {
	outTexts := make([]string, len(rows))
	outYs := make([]int, len(rows))
	for i, row := range rows {
		outTexts[i] = texts[row]
		outYs[i] = ys[row]
	}
	return outTexts, outYs
}
