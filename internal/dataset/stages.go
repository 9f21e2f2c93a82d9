package dataset

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/records"
	"github.com/spigell/decision-match/internal/text"
)

type labelStage struct{}

// NewLabelStage creates the step that turns prospects into labeled candidates.
func NewLabelStage() Stage {
	return &labelStage{}
}

func (s *labelStage) Name() string { return "label" }

func (s *labelStage) Apply(_ context.Context, deps Deps, pairs []LabeledPair) ([]LabeledPair, Step, error) {
	if deps.Tables == nil || deps.Tables.Prospects == nil {
		return nil, Step{}, fmt.Errorf("prospects table is required")
	}

	initial := 0
	noCode := 0
	excluded := make(map[string]int)

	deps.Tables.Prospects.Each(func(jobID string, entry *records.ProspectEntry) {
		if entry == nil {
			return
		}
		for _, p := range entry.Prospects {
			if p == nil {
				continue
			}
			initial++

			code := strings.TrimSpace(p.Code)
			if code == "" {
				noCode++
				continue
			}

			class := deps.Vocabulary.Classify(p.Status)
			label, ok := class.Label()
			if !ok {
				excluded[text.Clean(p.Status)]++
				continue
			}

			pairs = append(pairs, LabeledPair{JobID: jobID, ApplicantID: code, Label: label})
		}
	})

	if deps.Logger != nil && (noCode > 0 || len(excluded) > 0) {
		deps.Logger.Debug("skipping prospects without a usable status",
			zap.Int("without_code", noCode),
			zap.Any("excluded_statuses", excluded),
		)
	}

	if len(pairs) == 0 {
		return nil, Step{Initial: initial, Dropped: initial}, fmt.Errorf("%w: no prospect has a positive or negative status, check the status vocabulary", ErrEmptyDataset)
	}

	return pairs, Step{Initial: initial, Dropped: initial - len(pairs), Left: len(pairs)}, nil
}

type textStage struct{}

// NewTextStage creates the step that attaches job and applicant text.
func NewTextStage() Stage {
	return &textStage{}
}

func (s *textStage) Name() string { return "text" }

func (s *textStage) Apply(_ context.Context, deps Deps, pairs []LabeledPair) ([]LabeledPair, Step, error) {
	jobTexts := make(map[string]string)
	applicantTexts := make(map[string]string)

	for i := range pairs {
		p := &pairs[i]

		jt, ok := jobTexts[p.JobID]
		if !ok {
			job, _ := deps.Tables.Jobs.Get(p.JobID)
			jt = text.JobText(job)
			jobTexts[p.JobID] = jt
		}

		at, ok := applicantTexts[p.ApplicantID]
		if !ok {
			applicant, _ := deps.Tables.Applicants.Get(p.ApplicantID)
			at = text.ApplicantText(applicant)
			applicantTexts[p.ApplicantID] = at
		}

		p.JobText = jt
		p.ApplicantText = at
		p.Text = text.Pair(jt, at)
	}

	return pairs, Step{Initial: len(pairs), Dropped: 0, Left: len(pairs)}, nil
}

type lengthStage struct{}

// NewLengthStage creates the step that drops pairs without enough text on either side.
func NewLengthStage() Stage {
	return &lengthStage{}
}

func (s *lengthStage) Name() string { return "min_length" }

func (s *lengthStage) Apply(_ context.Context, deps Deps, pairs []LabeledPair) ([]LabeledPair, Step, error) {
	initial := len(pairs)
	kept := pairs[:0]
	for _, p := range pairs {
		if !text.Enough(p.JobText) || !text.Enough(p.ApplicantText) {
			continue
		}
		kept = append(kept, p)
	}

	if len(kept) == 0 {
		return nil, Step{Initial: initial, Dropped: initial}, fmt.Errorf("%w: no pair has enough job and applicant text", ErrEmptyDataset)
	}

	if deps.Logger != nil && len(kept) < initial {
		deps.Logger.Info("dropping pairs with short texts",
			zap.Int("dropped", initial-len(kept)),
			zap.Int("min_length", text.MinLength),
		)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
