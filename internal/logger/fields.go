package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldJobID is the structured log field key for a job identifier.
	FieldJobID = "job_id"
	// FieldApplicantID is the structured log field key for an applicant identifier.
	FieldApplicantID = "applicant_id"
	// FieldRequestID is the structured log field key for an HTTP request id.
	FieldRequestID = "request_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// MatchFields describes the job/applicant pair a log entry is about.
// Empty ids are omitted, so text-mode predictions carry no id fields.
func MatchFields(jobID, applicantID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldJobID, Value: jobID},
		StringField{Key: FieldApplicantID, Value: applicantID},
	)
}

// WithMatchFields attaches the match fields to the provided logger.
func WithMatchFields(logger *zap.Logger, jobID, applicantID string) *zap.Logger {
	return WithFields(logger, MatchFields(jobID, applicantID)...)
}
