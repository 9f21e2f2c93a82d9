package training

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spigell/decision-match/internal/model"
)

// ReportFileName is the metrics report name inside the artifacts directory.
const ReportFileName = "last_report.txt"

// Report is the parsed content of a metrics report. Missing or unparsable
// values are NaN.
type Report struct {
	F1     float64
	ROCAUC float64
	Raw    string
}

// FormatReport renders the report header followed by the classification report.
func FormatReport(f1, auc float64, classification string) string {
	return fmt.Sprintf("F1: %.3f\nROC AUC: %.3f\n\n", f1, auc) + classification
}

// WriteReport atomically replaces the report at path.
func WriteReport(path string, f1, auc float64, classification string) error {
	return model.WriteFileAtomic(path, []byte(FormatReport(f1, auc, classification)))
}

// ReadReport reads the report at path. The boolean is false when no report exists.
func ReadReport(path string) (Report, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Report{F1: math.NaN(), ROCAUC: math.NaN()}, false, nil
	}
	if err != nil {
		return Report{}, false, fmt.Errorf("read report: %w", err)
	}

	return ParseReport(string(data)), true, nil
}

// ParseReport extracts the F1 and ROC AUC lines, case-insensitively.
func ParseReport(raw string) Report {
	r := Report{F1: math.NaN(), ROCAUC: math.NaN(), Raw: raw}

	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "f1:"):
			r.F1 = parseValue(line)
		case strings.HasPrefix(lower, "roc auc:"):
			r.ROCAUC = parseValue(line)
		}
	}

	return r
}

func parseValue(line string) float64 {
	_, value, ok := strings.Cut(line, ":")
	if !ok {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
