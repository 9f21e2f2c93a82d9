package model

import (
	"regexp"
	"strings"
)

// Words of two or more letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

type analyzer struct {
	nGramMax int
	stop     map[string]struct{}
}

func newAnalyzer(nGramMax int, stopWords []string) *analyzer {
	if nGramMax < 1 {
		nGramMax = 1
	}
	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &analyzer{nGramMax: nGramMax, stop: stop}
}

// terms lowercases and tokenizes s, removes stop words and emits 1..nGramMax grams.
func (a *analyzer) terms(s string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(s), -1)

	tokens := raw[:0]
	for _, t := range raw {
		if _, ok := a.stop[t]; ok {
			continue
		}
		tokens = append(tokens, t)
	}

	out := make([]string, 0, len(tokens)*a.nGramMax)
	out = append(out, tokens...)
	for n := 2; n <= a.nGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
