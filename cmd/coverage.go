package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/audit"
	"github.com/spigell/decision-match/internal/model"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage FILE",
	Short: "Report the share of sample tokens known to the trained vocabulary",
	Long:  "Report the share of tokens of the newline separated samples in FILE that are known to the trained vocabulary. Use - for stdin.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		coverage(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(coverageCmd)
}

func coverage(cmd *cobra.Command, path string) {
	logger, config := setup()

	pipe, err := model.Load(config.modelPath())
	if err != nil {
		logger.Fatal("loading model", zap.String("path", config.modelPath()), zap.Error(err))
	}

	samples, err := readSamples(path)
	if err != nil {
		logger.Fatal("reading samples", zap.String("path", path), zap.Error(err))
	}

	value := audit.VocabularyCoverage(pipe, samples)

	logger.Info("vocabulary coverage",
		zap.Int("samples", len(samples)),
		zap.Float64("coverage", value),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%.3f\n", value)
}

func readSamples(path string) ([]string, error) {
	f := os.Stdin
	if path != "-" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
	}

	var samples []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			samples = append(samples, line)
		}
	}

	return samples, sc.Err()
}
