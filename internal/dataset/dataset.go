package dataset

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/labels"
	"github.com/spigell/decision-match/internal/records"
)

// ErrEmptyDataset is returned when no pair survives labeling or cleaning.
var ErrEmptyDataset = errors.New("empty dataset")

// LabeledPair is a single supervised example.
type LabeledPair struct {
	JobID         string `json:"job_id"`
	ApplicantID   string `json:"applicant_id"`
	Label         int    `json:"label"`
	JobText       string `json:"job_text"`
	ApplicantText string `json:"applicant_text"`
	Text          string `json:"text"`
}

// Step describes the result of executing a build step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Deps aggregates what the build steps need.
type Deps struct {
	Tables     *records.Tables
	Vocabulary *labels.Vocabulary
	Logger     *zap.Logger
}

// Stage is one step of the dataset build.
type Stage interface {
	Name() string
	Apply(ctx context.Context, deps Deps, pairs []LabeledPair) ([]LabeledPair, Step, error)
}

// Stages returns the default build sequence.
func Stages() []Stage {
	return []Stage{
		NewLabelStage(),
		NewTextStage(),
		NewLengthStage(),
	}
}

// Build joins prospects, jobs and applicants into labeled pairs.
// Pairs come out in source order of the prospects table.
func Build(ctx context.Context, tables *records.Tables, vocabulary *labels.Vocabulary, logger *zap.Logger) ([]LabeledPair, error) {
	if tables == nil {
		return nil, fmt.Errorf("tables are required")
	}
	if vocabulary == nil {
		vocabulary = labels.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return Run(ctx, Deps{Tables: tables, Vocabulary: vocabulary, Logger: logger}, Stages())
}

// Run executes the stages sequentially.
func Run(ctx context.Context, deps Deps, stages []Stage) ([]LabeledPair, error) {
	var pairs []LabeledPair
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, info, err := stage.Apply(ctx, deps, pairs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stage.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("dataset step",
				zap.String("name", stage.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		pairs = next
	}

	return pairs, nil
}

// Count returns the number of positive and negative pairs.
func Count(pairs []LabeledPair) (positives, negatives int) {
	for _, p := range pairs {
		if p.Label == 1 {
			positives++
		} else {
			negatives++
		}
	}
	return positives, negatives
}

// Texts returns the classifier inputs and labels of the pairs.
func Texts(pairs []LabeledPair) ([]string, []int) {
	texts := make([]string, len(pairs))
	ys := make([]int, len(pairs))
	for i, p := range pairs {
		texts[i] = p.Text
		ys[i] = p.Label
	}
	return texts, ys
}
