package training

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Threshold turns probabilities into hard labels.
func Threshold(scores []float64, threshold float64) []int {
	out := make([]int, len(scores))
	for i, s := range scores {
		if s >= threshold {
			out[i] = 1
		}
	}
	return out
}

type counts struct {
	tp, fp, fn, support int
}

func countsFor(yTrue, yPred []int, class int) counts {
	var c counts
	for i := range yTrue {
		switch {
		case yTrue[i] == class && yPred[i] == class:
			c.tp++
		case yTrue[i] != class && yPred[i] == class:
			c.fp++
		case yTrue[i] == class && yPred[i] != class:
			c.fn++
		}
		if yTrue[i] == class {
			c.support++
		}
	}
	return c
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func (c counts) precision() float64 { return ratio(c.tp, c.tp+c.fp) }
func (c counts) recall() float64    { return ratio(c.tp, c.tp+c.fn) }
func (c counts) f1() float64        { return ratio(2*c.tp, 2*c.tp+c.fp+c.fn) }

// F1 is the F1 score of the positive class. Undefined values are 0.
func F1(yTrue, yPred []int) float64 {
	return countsFor(yTrue, yPred, 1).f1()
}

// ROCAUC is the area under the ROC curve computed from average ranks.
// It is NaN when yTrue holds a single class.
func ROCAUC(yTrue []int, scores []float64) float64 {
	n := len(scores)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[idx[j+1]] == scores[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}

	var pos, neg int
	var rankSum float64
	for i, y := range yTrue {
		if y == 1 {
			pos++
			rankSum += ranks[i]
		} else {
			neg++
		}
	}

	if pos == 0 || neg == 0 {
		return math.NaN()
	}

	return (rankSum - float64(pos*(pos+1))/2) / float64(pos*neg)
}

// ClassificationReport renders per-class precision, recall, f1 and support
// followed by accuracy and macro/weighted averages.
func ClassificationReport(yTrue, yPred []int) string {
	seen := map[int]struct{}{}
	for _, y := range yTrue {
		seen[y] = struct{}{}
	}
	for _, y := range yPred {
		seen[y] = struct{}{}
	}
	classes := make([]int, 0, len(seen))
	for y := range seen {
		classes = append(classes, y)
	}
	sort.Ints(classes)

	const width = len("weighted avg")

	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")

	var (
		total                     = len(yTrue)
		correct                   int
		macroP, macroR, macroF    float64
		weightP, weightR, weightF float64
	)
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	for _, y := range classes {
		c := countsFor(yTrue, yPred, y)
		p, r, f := c.precision(), c.recall(), c.f1()
		fmt.Fprintf(&b, "%*d  %9.2f %9.2f %9.2f %9d\n", width, y, p, r, f, c.support)

		macroP += p
		macroR += r
		macroF += f
		w := float64(c.support)
		weightP += p * w
		weightR += r * w
		weightF += f * w
	}

	k := float64(len(classes))
	if k == 0 {
		k = 1
	}
	n := float64(total)
	if n == 0 {
		n = 1
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s  %9s %9s %9.2f %9d\n", width, "accuracy", "", "", ratio(correct, total), total)
	fmt.Fprintf(&b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, "macro avg", macroP/k, macroR/k, macroF/k, total)
	fmt.Fprintf(&b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, "weighted avg", weightP/n, weightR/n, weightF/n, total)

	return b.String()
}
