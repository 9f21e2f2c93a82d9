package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// ErrDataLoad is returned when an input table is missing or malformed.
var ErrDataLoad = errors.New("data load")

// LoadTables reads jobs, applicants and prospects from the data directory.
func LoadTables(dir string) (*Tables, error) {
	ref, err := LoadReference(dir)
	if err != nil {
		return nil, err
	}

	prospects, err := loadTable(filepath.Join(dir, ProspectsFile), func(id string, p *ProspectEntry) { p.JobID = id })
	if err != nil {
		return nil, err
	}

	return &Tables{Reference: *ref, Prospects: prospects}, nil
}

// LoadReference reads the jobs and applicants tables from the data directory.
func LoadReference(dir string) (*Reference, error) {
	jobs, err := loadTable(filepath.Join(dir, JobsFile), func(id string, j *Job) { j.ID = id })
	if err != nil {
		return nil, err
	}

	applicants, err := loadTable(filepath.Join(dir, ApplicantsFile), func(id string, a *Applicant) { a.ID = id })
	if err != nil {
		return nil, err
	}

	return &Reference{Jobs: jobs, Applicants: applicants}, nil
}

func loadTable[T any](path string, setID func(id string, item *T)) (*Table[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataLoad, err)
	}
	defer file.Close()

	table, err := DecodeTable(file, setID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataLoad, filepath.Base(path), err)
	}

	return table, nil
}

// DecodeTable reads a JSON object keyed by record id and keeps the key order.
func DecodeTable[T any](r io.Reader, setID func(id string, item *T)) (*Table[T], error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a json object keyed by id, got %v", tok)
	}

	table := NewTable[T]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("record %s: %w", id, err)
		}

		item := new(T)
		if err := decodeRecord(raw, item); err != nil {
			return nil, fmt.Errorf("record %s: %w", id, err)
		}
		if setID != nil {
			setID(id, item)
		}
		table.Put(id, item)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return table, nil
}

func decodeRecord(raw any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringifyHook,
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(raw)
}

// stringifyHook turns nested values into text when a string field is expected.
func stringifyHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || data == nil {
		return data, nil
	}

	switch from.Kind() {
	case reflect.Map, reflect.Slice:
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Sprintf("%v", data), nil
		}
		return string(b), nil
	default:
		return data, nil
	}
}
