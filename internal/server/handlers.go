package server

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/predict"
	"github.com/spigell/decision-match/internal/training"
	"github.com/spigell/decision-match/internal/utils"
)

const defaultExamples = 5

// Handler serves the API over a prediction service.
type Handler struct {
	svc    *predict.Service
	cfg    Config
	logger *zap.Logger
}

type HealthResponse struct {
	Status        string  `json:"status"`
	ModelLoaded   bool    `json:"model_loaded"`
	ArtifactPath  string  `json:"artifact_path"`
	ArtifactMtime *string `json:"artifact_mtime"`
	Version       string  `json:"version"`
}

type ExamplesResponse struct {
	JobIDs       []string `json:"job_ids"`
	ApplicantIDs []string `json:"applicant_ids"`
}

type MetricsResponse struct {
	F1        *float64 `json:"f1"`
	ROCAUC    *float64 `json:"roc_auc"`
	HasReport bool     `json:"has_report"`
}

// Health reports whether a model is loaded and when the artifact was written.
func (h *Handler) Health(c *fiber.Ctx) error {
	resp := HealthResponse{
		Status:       "ok",
		ModelLoaded:  h.svc.ModelLoaded(),
		ArtifactPath: h.cfg.ArtifactPath,
		Version:      h.cfg.Version,
	}

	if info, err := os.Stat(h.cfg.ArtifactPath); err == nil {
		mtime := info.ModTime().UTC().Format(time.RFC3339Nano)
		resp.ArtifactMtime = &mtime
	}

	return JSON(c, fiber.StatusOK, resp)
}

// Examples returns the first n job and applicant ids of the reference data.
func (h *Handler) Examples(c *fiber.Ctx) error {
	n := defaultExamples
	if raw := strings.TrimSpace(c.Query("n")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "n must be an integer")
		}
		n = v
	}

	ref := h.svc.Reference()
	return JSON(c, fiber.StatusOK, ExamplesResponse{
		JobIDs:       ref.Jobs.Head(n),
		ApplicantIDs: ref.Applicants.Head(n),
	})
}

// Metrics returns the scores of the last training report.
func (h *Handler) Metrics(c *fiber.Ctx) error {
	report, ok, err := training.ReadReport(h.cfg.ReportPath)
	if err != nil {
		h.logger.Warn("reading training report", zap.String("path", h.cfg.ReportPath), zap.Error(err))
		return JSON(c, fiber.StatusOK, MetricsResponse{})
	}

	return JSON(c, fiber.StatusOK, MetricsResponse{
		F1:        utils.NullableFloat(report.F1),
		ROCAUC:    utils.NullableFloat(report.ROCAUC),
		HasReport: ok,
	})
}

// Predict scores a job/applicant pair given by ids or by texts.
func (h *Handler) Predict(c *fiber.Ctx) error {
	threshold := *h.cfg.DefaultThreshold
	if raw := strings.TrimSpace(c.Query("threshold")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "threshold must be a number between 0 and 1")
		}
		threshold = v
	}

	var req predict.Request
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid JSON body")
		}
	}

	res, err := h.svc.Predict(c.UserContext(), req, threshold)
	if err != nil {
		return h.predictError(c, err)
	}

	return JSON(c, fiber.StatusOK, res)
}

func (h *Handler) predictError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, predict.ErrInvalidRequest):
		return Error(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, predict.ErrNotFound):
		return Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, predict.ErrModelNotLoaded):
		return Error(c, fiber.StatusServiceUnavailable, "model is not loaded, run the train command first")
	default:
		h.logger.Error("prediction failed", zap.String("request_id", requestID(c)), zap.Error(err))
		return Error(c, fiber.StatusInternalServerError, "prediction failed")
	}
}
