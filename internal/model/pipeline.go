package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	// FileName is the artifact name inside the artifacts directory.
	FileName = "model.json"

	DefaultMaxFeatures = 40000
	DefaultNGramMax    = 2
	DefaultC           = 1.0
	DefaultMaxIter     = 1000

	formatVersion = 1
)

var ErrNotFitted = errors.New("model is not fitted")

// Options tune a pipeline before fitting. Zero values select the defaults.
type Options struct {
	MaxFeatures int
	NGramMax    int
	C           float64
	MaxIter     int
}

// Pipeline chains the tf-idf vectorizer and the logistic regression.
// A fitted pipeline is read-only and safe for concurrent use.
type Pipeline struct {
	Version    int         `json:"version"`
	FittedAt   time.Time   `json:"fitted_at"`
	Vectorizer *Vectorizer `json:"vectorizer"`
	Classifier *Classifier `json:"classifier"`
}

func New(opts Options) *Pipeline {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}
	if opts.NGramMax <= 0 {
		opts.NGramMax = DefaultNGramMax
	}
	if opts.C <= 0 {
		opts.C = DefaultC
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultMaxIter
	}

	return &Pipeline{
		Version:    formatVersion,
		Vectorizer: NewVectorizer(opts.NGramMax, opts.MaxFeatures, PortugueseStopWords),
		Classifier: NewClassifier(opts.C, opts.MaxIter),
	}
}

// Fit learns the vocabulary and the weights from texts labeled with 0 or 1.
func (p *Pipeline) Fit(texts []string, labels []int) error {
	if len(texts) != len(labels) {
		return fmt.Errorf("got %d texts and %d labels", len(texts), len(labels))
	}
	if len(texts) == 0 {
		return errors.New("nothing to fit")
	}
	for i, y := range labels {
		if y != 0 && y != 1 {
			return fmt.Errorf("label %d at row %d is not binary", y, i)
		}
	}

	p.Vectorizer.Fit(texts)
	// The analyzer must exist before the pipeline is shared between goroutines.
	p.Vectorizer.analyze("")
	if err := p.Classifier.Fit(p.Vectorizer.TransformAll(texts), labels, p.Vectorizer.Size()); err != nil {
		return fmt.Errorf("fit classifier: %w", err)
	}
	p.FittedAt = time.Now().UTC()

	return nil
}

func (p *Pipeline) fitted() bool {
	return p != nil && p.Vectorizer != nil && p.Classifier != nil &&
		len(p.Classifier.Weights) == p.Vectorizer.Size() && p.Vectorizer.Vocabulary != nil
}

// PredictProba returns the positive-class probability of every text.
func (p *Pipeline) PredictProba(texts []string) ([]float64, error) {
	if !p.fitted() {
		return nil, ErrNotFitted
	}

	out := make([]float64, len(texts))
	for i, t := range texts {
		out[i] = p.Classifier.Probability(p.Vectorizer.Transform(t))
	}
	return out, nil
}

// Score returns the positive-class probability of a single text.
func (p *Pipeline) Score(text string) (float64, error) {
	probs, err := p.PredictProba([]string{text})
	if err != nil {
		return 0, err
	}
	return probs[0], nil
}

// Contains reports whether a term is a feature of the fitted vocabulary.
func (p *Pipeline) Contains(term string) bool {
	if !p.fitted() {
		return false
	}
	return p.Vectorizer.Contains(term)
}

// Encode returns the JSON artifact of a fitted pipeline.
func (p *Pipeline) Encode() ([]byte, error) {
	if !p.fitted() {
		return nil, ErrNotFitted
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return data, nil
}

// Save writes the pipeline as JSON. The file is replaced atomically.
func (p *Pipeline) Save(path string) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}

	return WriteFileAtomic(path, data)
}

// Load reads a pipeline saved by Save.
func Load(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var p Pipeline
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if p.Version != formatVersion {
		return nil, fmt.Errorf("model %s has unsupported version %d", path, p.Version)
	}
	if !p.fitted() {
		return nil, fmt.Errorf("model %s: %w", path, ErrNotFitted)
	}
	p.Vectorizer.analyze("")

	return &p, nil
}
