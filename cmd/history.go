package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/store"
	"github.com/spigell/decision-match/internal/utils"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent training runs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		history(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 10, "number of runs to show")
}

func history(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()

	db := openStore(config, logger)
	if db == nil {
		logger.Fatal("listing training runs", zap.Error(store.ErrNoStore), zap.String("hint", "set store.enabled to true"))
	}
	defer db.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := db.ListTrainingRuns(ctx, limit)
	if err != nil {
		logger.Fatal("listing training runs", zap.Error(err))
	}

	logger.Debug("listing training runs", zap.Int("count", len(runs)))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tFINISHED\tF1\tROC AUC\tTRAIN\tTEST")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.FinishedAt.Local().Format(time.DateTime),
			utils.FormatMetric(run.F1),
			utils.FormatMetric(run.ROCAUC),
			run.NTrain,
			run.NTest,
		)
	}
	w.Flush()

	stats, err := db.PredictionStats(ctx)
	if err != nil {
		logger.Warn("reading prediction stats", zap.Error(err))
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\npredictions: %d, mean score: %s\n", stats.Count, utils.FormatMetric(stats.MeanScore))
}
