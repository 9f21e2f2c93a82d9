package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/predict"
	"github.com/spigell/decision-match/internal/records"
	"github.com/spigell/decision-match/internal/utils"
)

const promptItems = 20

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score a single job/applicant pair",
	Long: "Score a single job/applicant pair given by ids or by texts. " +
		"Without flags the job and the applicant are chosen interactively.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		runPredict(cmd)
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().String("job-id", "", "job id from the data directory")
	predictCmd.Flags().String("applicant-id", "", "applicant id from the data directory")
	predictCmd.Flags().String("job-text", "", "free job text")
	predictCmd.Flags().String("applicant-text", "", "free applicant text")
	predictCmd.Flags().Float64P("threshold", "t", -1, "decision threshold between 0 and 1 (default is predict.threshold from the config)")
}

func runPredict(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()

	db := openStore(config, logger)
	if db != nil {
		defer db.Close()
	}

	svc := newService(config, db, logger)
	if !svc.ModelLoaded() {
		logger.Fatal("model is not loaded", zap.String("hint", "run the train command first"))
	}

	req := predict.Request{
		JobID:         flagString(cmd, "job-id"),
		ApplicantID:   flagString(cmd, "applicant-id"),
		JobText:       flagString(cmd, "job-text"),
		ApplicantText: flagString(cmd, "applicant-text"),
	}

	if req == (predict.Request{}) {
		selected, err := choosePair(svc.Reference())
		if err != nil {
			logger.Fatal("choosing a pair", zap.Error(err))
		}
		req = selected
	}

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	if !cmd.Flags().Changed("threshold") {
		threshold = config.Predict.Threshold
	}

	res, err := svc.Predict(ctx, req, threshold)
	if err != nil {
		logger.Fatal("prediction failed", zap.Error(err))
	}

	logger.Info("prediction",
		zap.String("job", utils.TruncateForLog(req.JobID+req.JobText, 60)),
		zap.String("applicant", utils.TruncateForLog(req.ApplicantID+req.ApplicantText, 60)),
		zap.Float64("match_score", res.MatchScore),
		zap.Int("label", res.Label),
	)

	pretty, _ := json.MarshalIndent(res, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return strings.TrimSpace(v)
}

// choosePair asks for a job and an applicant among the first reference records.
func choosePair(ref *records.Reference) (predict.Request, error) {
	if ref.Jobs.Len() == 0 || ref.Applicants.Len() == 0 {
		return predict.Request{}, fmt.Errorf("no reference data to choose from, pass ids or texts as flags")
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: ref.Jobs.Head(promptItems),
	}
	_, jobID, err := jobPrompt.Run()
	if err != nil {
		return predict.Request{}, err
	}

	applicantPrompt := promptui.Select{
		Label: "Choose an applicant and press ENTER",
		Items: ref.Applicants.Head(promptItems),
	}
	_, applicantID, err := applicantPrompt.Run()
	if err != nil {
		return predict.Request{}, err
	}

	return predict.Request{JobID: jobID, ApplicantID: applicantID}, nil
}
