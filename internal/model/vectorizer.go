package model

import (
	"math"
	"sort"
)

// Vector is a sparse feature vector with sorted indices.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the inner product with a dense weight slice.
func (v Vector) Dot(w []float64) float64 {
	var sum float64
	for k, idx := range v.Indices {
		sum += v.Values[k] * w[idx]
	}
	return sum
}

// Vectorizer turns text into l2-normalised tf-idf vectors over uni- and bi-grams.
type Vectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	NGramMax    int            `json:"ngram_max"`
	MaxFeatures int            `json:"max_features"`
	StopWords   []string       `json:"stop_words"`

	analyzer *analyzer
}

// NewVectorizer returns an unfitted vectorizer over 1..nGramMax word n-grams.
func NewVectorizer(nGramMax, maxFeatures int, stopWords []string) *Vectorizer {
	return &Vectorizer{
		NGramMax:    nGramMax,
		MaxFeatures: maxFeatures,
		StopWords:   stopWords,
	}
}

func (v *Vectorizer) analyze(s string) []string {
	if v.analyzer == nil {
		v.analyzer = newAnalyzer(v.NGramMax, v.StopWords)
	}
	return v.analyzer.terms(s)
}

// Fit learns the vocabulary and idf weights from the documents.
// When MaxFeatures is set only the most frequent terms are kept; ties go to
// the lexicographically smaller term.
func (v *Vectorizer) Fit(docs []string) {
	total := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range v.analyze(doc) {
			total[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}

	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
}

// Transform maps one document onto the fitted vocabulary.
func (v *Vectorizer) Transform(doc string) Vector {
	counts := make(map[int]float64)
	for _, term := range v.analyze(doc) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	var norm float64
	for _, idx := range vec.Indices {
		val := counts[idx] * v.IDF[idx]
		vec.Values = append(vec.Values, val)
		norm += val * val
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for k := range vec.Values {
			vec.Values[k] /= norm
		}
	}

	return vec
}

func (v *Vectorizer) TransformAll(docs []string) []Vector {
	out := make([]Vector, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out
}

// Size returns the number of features.
func (v *Vectorizer) Size() int {
	return len(v.IDF)
}

// Contains reports whether the term is a feature of the fitted vocabulary.
func (v *Vectorizer) Contains(term string) bool {
	_, ok := v.Vocabulary[term]
	return ok
}
