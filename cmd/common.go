package cmd

import (
	"log"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/audit"
	"github.com/spigell/decision-match/internal/labels"
	"github.com/spigell/decision-match/internal/logger"
	"github.com/spigell/decision-match/internal/model"
	"github.com/spigell/decision-match/internal/predict"
	"github.com/spigell/decision-match/internal/records"
	"github.com/spigell/decision-match/internal/store"
	"github.com/spigell/decision-match/internal/training"
)

// setup returns the logger and the decoded config, exiting on failure.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	return logger, config
}

func (c *Config) modelPath() string {
	return filepath.Join(c.ArtifactsDir, model.FileName)
}

func (c *Config) reportPath() string {
	return filepath.Join(c.ArtifactsDir, training.ReportFileName)
}

func (c *Config) auditPath() string {
	return filepath.Join(c.ArtifactsDir, audit.FileName)
}

func (c *Config) storePath() string {
	return filepath.Join(c.ArtifactsDir, store.FileName)
}

// openStore opens the history database. It returns nil when the store is
// disabled or can not be opened, since history is never required.
func openStore(config *Config, logger *zap.Logger) *store.DB {
	if !config.Store.Enabled {
		logger.Debug("history store disabled")
		return nil
	}

	db, err := store.Open(config.storePath())
	if err != nil {
		logger.Warn("opening history store", zap.String("path", config.storePath()), zap.Error(err))
		return nil
	}

	return db
}

// newService builds the prediction service. A missing model or missing data
// leaves the service usable: predictions fail with ErrModelNotLoaded and ids
// do not resolve.
func newService(config *Config, db *store.DB, logger *zap.Logger) *predict.Service {
	opts := predict.Options{Logger: logger}

	pipe, err := model.Load(config.modelPath())
	if err != nil {
		logger.Warn("model not loaded",
			zap.String("path", config.modelPath()),
			zap.String("hint", "run the train command first"),
			zap.Error(err),
		)
	} else {
		opts.Scorer = pipe
		logger.Info("model loaded",
			zap.String("path", config.modelPath()),
			zap.Int("features", pipe.Vectorizer.Size()),
		)
	}

	ref, err := records.LoadReference(config.DataDir)
	if err != nil {
		logger.Warn("reference data not loaded, id lookups will fail", zap.String("dir", config.DataDir), zap.Error(err))
	} else {
		opts.Reference = ref
		logger.Info("reference data loaded",
			zap.Int("jobs", ref.Jobs.Len()),
			zap.Int("applicants", ref.Applicants.Len()),
		)
	}

	var mirror audit.Mirror
	if db != nil {
		mirror = db
	}
	opts.Auditor = audit.New(config.auditPath(), mirror, logger)

	return predict.New(opts)
}

func loadVocabulary(config *Config) (*labels.Vocabulary, error) {
	return labels.Load(config.LabelsFile)
}
