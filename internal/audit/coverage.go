package audit

import "strings"

// Vocabulary reports whether a term is known to the fitted vectorizer.
type Vocabulary interface {
	Contains(term string) bool
}

// VocabularyCoverage returns the share of lowercased whitespace-separated
// tokens of texts that are in vocab. It is 0 when there are no tokens.
func VocabularyCoverage(vocab Vocabulary, texts []string) float64 {
	var total, known int
	for _, text := range texts {
		for _, word := range strings.Fields(text) {
			total++
			if vocab != nil && vocab.Contains(strings.ToLower(word)) {
				known++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(known) / float64(total)
}
