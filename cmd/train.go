package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/store"
	"github.com/spigell/decision-match/internal/training"
	"github.com/spigell/decision-match/internal/utils"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the match model on the data directory and write the artifacts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		train(cmd)
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func train(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	logger.Info("starting the training",
		zap.String("version", version),
		zap.String("data_dir", config.DataDir),
		zap.String("artifacts_dir", config.ArtifactsDir),
	)

	vocabulary, err := loadVocabulary(config)
	if err != nil {
		logger.Fatal("loading status vocabulary", zap.String("path", config.LabelsFile), zap.Error(err))
	}

	opts := training.Options{
		DataDir:      config.DataDir,
		ArtifactsDir: config.ArtifactsDir,
		TestSize:     config.Training.TestSize,
		Seed:         &config.Training.Seed,
		MaxIter:      config.Training.MaxIter,
		MaxFeatures:  config.Training.MaxFeatures,
		Vocabulary:   vocabulary,
		Logger:       logger,
	}

	var previous *store.TrainingRun
	if db := openStore(config, logger); db != nil {
		defer db.Close()
		opts.Store = db

		if run, ok, err := db.LatestTrainingRun(ctx); err != nil {
			logger.Warn("reading the previous training run", zap.Error(err))
		} else if ok {
			previous = &run
		}
	}

	summary, err := training.TrainAndEvaluate(ctx, opts)
	if err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}

	logger.Info(fmt.Sprintf("F1=%s | ROC AUC=%s", utils.FormatMetric(summary.F1), utils.FormatMetric(summary.ROCAUC)),
		zap.String("model", summary.ModelPath),
		zap.String("report", summary.ReportPath),
	)

	if previous != nil {
		logger.Info("compared with the previous run",
			zap.String("previous_run_id", previous.ID),
			zap.String("previous_f1", utils.FormatMetric(previous.F1)),
			zap.String("previous_roc_auc", utils.FormatMetric(previous.ROCAUC)),
		)
	}

	// NaN metrics become null, so encoding can not fail
	pretty, _ := json.MarshalIndent(map[string]any{
		"run_id":  summary.RunID,
		"f1":      utils.NullableFloat(summary.F1),
		"roc_auc": utils.NullableFloat(summary.ROCAUC),
		"n_train": summary.NTrain,
		"n_test":  summary.NTest,
	}, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}
