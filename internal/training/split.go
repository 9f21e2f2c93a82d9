package training

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// Split holds row indices of the train and test partitions in ascending order.
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions rows so that both partitions keep the label
// proportions. Every class needs at least two rows; each class contributes
// round(n*testSize) rows to the test partition, at least one and at most n-1.
func StratifiedSplit(labels []int, testSize float64, seed uint64) (Split, error) {
	if testSize <= 0 || testSize >= 1 {
		return Split{}, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	byClass := map[int][]int{}
	for i, y := range labels {
		byClass[y] = append(byClass[y], i)
	}

	classes := make([]int, 0, len(byClass))
	for y := range byClass {
		classes = append(classes, y)
	}
	sort.Ints(classes)

	if len(classes) < 2 {
		return Split{}, fmt.Errorf("%w: need both classes, got %d", ErrInsufficientData, len(classes))
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	var split Split
	for _, y := range classes {
		rows := byClass[y]
		n := len(rows)
		if n < 2 {
			return Split{}, fmt.Errorf("%w: class %d has %d example(s), need at least 2", ErrInsufficientData, y, n)
		}

		k := int(math.Round(float64(n) * testSize))
		k = max(1, min(k, n-1))

		shuffled := append([]int(nil), rows...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		split.Test = append(split.Test, shuffled[:k]...)
		split.Train = append(split.Train, shuffled[k:]...)
	}

	sort.Ints(split.Train)
	sort.Ints(split.Test)

	return split, nil
}
