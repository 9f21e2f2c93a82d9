package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/logger"
	"github.com/spigell/decision-match/internal/records"
	"github.com/spigell/decision-match/internal/text"
	"github.com/spigell/decision-match/internal/utils"
)

const (
	DefaultThreshold = 0.5

	defaultMaxLogLength = 120
)

var (
	// ErrModelNotLoaded is returned when the service has no model.
	ErrModelNotLoaded = errors.New("model is not loaded")
	// ErrInvalidRequest is returned for malformed requests.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound is returned when an id does not resolve to a record.
	ErrNotFound = errors.New("not found")
)

// Scorer returns the match probability of a paired text. *model.Pipeline satisfies it.
type Scorer interface {
	Score(text string) (float64, error)
}

// Auditor records predictions without failing them. *audit.Logger satisfies it.
type Auditor interface {
	Log(ctx context.Context, text string, score float64) bool
}

// Request selects either id mode (both ids) or text mode (both texts).
type Request struct {
	JobID         string `json:"job_id,omitempty"`
	ApplicantID   string `json:"applicant_id,omitempty"`
	JobText       string `json:"job_text,omitempty"`
	ApplicantText string `json:"applicant_text,omitempty"`
}

type Result struct {
	MatchScore float64 `json:"match_score"`
	Label      int     `json:"label"`
	Threshold  float64 `json:"threshold"`
}

type Options struct {
	// Scorer is nil when no model could be loaded.
	Scorer    Scorer
	Reference *records.Reference
	Auditor   Auditor
	Logger    *zap.Logger

	MaxLogLength int
}

// Service answers predictions over state fixed at construction.
// It is safe for concurrent use.
type Service struct {
	scorer    Scorer
	reference *records.Reference
	auditor   Auditor
	logger    *zap.Logger
	maxLogLen int
}

func New(opts Options) *Service {
	if opts.Reference == nil {
		opts.Reference = records.EmptyReference()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}

	return &Service{
		scorer:    opts.Scorer,
		reference: opts.Reference,
		auditor:   opts.Auditor,
		logger:    opts.Logger,
		maxLogLen: opts.MaxLogLength,
	}
}

func (s *Service) ModelLoaded() bool {
	return s.scorer != nil
}

// Reference returns the tables ids are resolved against.
func (s *Service) Reference() *records.Reference {
	return s.reference
}

// Predict scores the pair described by req. The audit record is best effort.
func (s *Service) Predict(ctx context.Context, req Request, threshold float64) (Result, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return Result{}, fmt.Errorf("%w: threshold must be between 0 and 1, got %v", ErrInvalidRequest, threshold)
	}

	jobText, applicantText, err := s.Resolve(req)
	if err != nil {
		return Result{}, err
	}

	if s.scorer == nil {
		return Result{}, ErrModelNotLoaded
	}

	paired := text.Pair(jobText, applicantText)
	score, err := s.scorer.Score(paired)
	if err != nil {
		return Result{}, fmt.Errorf("score: %w", err)
	}

	label := 0
	if score >= threshold {
		label = 1
	}

	log := logger.WithMatchFields(s.logger, strings.TrimSpace(req.JobID), strings.TrimSpace(req.ApplicantID))
	log.Debug("prediction",
		zap.Float64("score", score),
		zap.Int("label", label),
		zap.Int("text_length", utf8.RuneCountInString(paired)),
		zap.String("text_preview", utils.TruncateForLog(paired, s.maxLogLen)),
	)

	if s.auditor != nil {
		s.auditor.Log(ctx, paired, score)
	}

	return Result{MatchScore: score, Label: label, Threshold: threshold}, nil
}

// Resolve returns the job and applicant texts of req. Ids and texts can not be mixed.
func (s *Service) Resolve(req Request) (string, string, error) {
	jobID := strings.TrimSpace(req.JobID)
	applicantID := strings.TrimSpace(req.ApplicantID)
	hasID := jobID != "" || applicantID != ""
	hasText := strings.TrimSpace(req.JobText) != "" || strings.TrimSpace(req.ApplicantText) != ""

	switch {
	case hasID && hasText:
		return "", "", fmt.Errorf("%w: provide either (job_id and applicant_id) or (job_text and applicant_text), not both", ErrInvalidRequest)
	case jobID != "" && applicantID != "":
		return s.resolveIDs(jobID, applicantID)
	case strings.TrimSpace(req.JobText) != "" && strings.TrimSpace(req.ApplicantText) != "":
		return req.JobText, req.ApplicantText, nil
	default:
		return "", "", fmt.Errorf("%w: provide (job_id and applicant_id) or (job_text and applicant_text)", ErrInvalidRequest)
	}
}

func (s *Service) resolveIDs(jobID, applicantID string) (string, string, error) {
	job, jobOK := s.reference.Jobs.Get(jobID)
	applicant, applicantOK := s.reference.Applicants.Get(applicantID)

	var missing []string
	if !jobOK {
		missing = append(missing, "job_id "+jobID)
	}
	if !applicantOK {
		missing = append(missing, "applicant_id "+applicantID)
	}
	if len(missing) > 0 {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, strings.Join(missing, ", "))
	}

	return text.JobText(job), text.ApplicantText(applicant), nil
}
