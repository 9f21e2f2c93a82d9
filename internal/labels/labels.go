package labels

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/decision-match/internal/text"
)

// Class is the training role of a pipeline status.
type Class int

const (
	Excluded Class = iota
	Positive
	Negative
)

func (c Class) String() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "excluded"
	}
}

// Label returns the binary training label of the class.
func (c Class) Label() (int, bool) {
	switch c {
	case Positive:
		return 1, true
	case Negative:
		return 0, true
	default:
		return 0, false
	}
}

//go:embed statuses.yaml
var defaultStatuses []byte

// File is the on-disk form of a vocabulary.
type File struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	Neutral  []string `yaml:"neutral"`
}

// Vocabulary maps cleaned status strings to classes.
type Vocabulary struct {
	classes map[string]Class
}

// Default returns the built-in Portuguese status vocabulary.
func Default() *Vocabulary {
	v, err := Parse(defaultStatuses)
	if err != nil {
		panic(fmt.Sprintf("embedded status vocabulary: %v", err))
	}
	return v
}

// Load reads a vocabulary from a YAML file. An empty path returns Default.
func Load(path string) (*Vocabulary, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading status vocabulary %q: %w", path, err)
	}

	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("status vocabulary %q: %w", path, err)
	}
	return v, nil
}

// Parse builds a vocabulary from YAML. A status listed under two classes is an error.
func Parse(data []byte) (*Vocabulary, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return New(f)
}

// New builds a vocabulary from its file form. A status listed under two classes is an error.
func New(f File) (*Vocabulary, error) {
	v := &Vocabulary{classes: make(map[string]Class)}

	groups := []struct {
		class    Class
		statuses []string
	}{
		{Positive, f.Positive},
		{Negative, f.Negative},
		{Excluded, f.Neutral},
	}

	for _, group := range groups {
		for _, status := range group.statuses {
			status = text.Clean(status)
			if status == "" {
				continue
			}
			if existing, ok := v.classes[status]; ok && existing != group.class {
				return nil, fmt.Errorf("status %q is both %s and %s", status, existing, group.class)
			}
			v.classes[status] = group.class
		}
	}

	return v, nil
}

// Classify returns the class of the status. Matching is exact and
// case-sensitive after whitespace normalisation; unknown statuses are Excluded.
func (v *Vocabulary) Classify(status string) Class {
	if v == nil {
		return Excluded
	}
	return v.classes[text.Clean(status)]
}

// Statuses lists the known statuses of the class, sorted.
func (v *Vocabulary) Statuses(class Class) []string {
	out := make([]string, 0)
	if v == nil {
		return out
	}
	for status, c := range v.classes {
		if c == class {
			out = append(out, status)
		}
	}
	sort.Strings(out)
	return out
}
