package records

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeTableKeepsSourceOrder(t *testing.T) {
	t.Parallel()

	input := `{"30": {"perfil_vaga": {"areas_atuacao": "TI"}}, "10": {"perfil_vaga": {}}, "20": {}}`

	table, err := DecodeTable(strings.NewReader(input), func(id string, j *Job) { j.ID = id })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := table.IDs(), []string{"30", "10", "20"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected ids %v, got %v", want, got)
	}

	job, ok := table.Get("30")
	if !ok {
		t.Fatalf("expected job 30 to be present")
	}
	if job.ID != "30" || job.Profile.PracticeAreas != "TI" {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestDecodeTableCoercesLooseValues(t *testing.T) {
	t.Parallel()

	input := `{"1": {"prospects": [{"codigo": 31000, "situacao_candidado": "Aprovado"}, {"codigo": "", "situacao_candidado": null}]}}`

	table, err := DecodeTable[ProspectEntry](strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, _ := table.Get("1")
	if len(entry.Prospects) != 2 {
		t.Fatalf("expected 2 prospects, got %d", len(entry.Prospects))
	}
	if entry.Prospects[0].Code != "31000" {
		t.Fatalf("expected numeric code to become a string, got %q", entry.Prospects[0].Code)
	}
	if entry.Prospects[1].Status != "" {
		t.Fatalf("expected null status to be empty, got %q", entry.Prospects[1].Status)
	}
}

func TestDecodeTableStringifiesNestedValues(t *testing.T) {
	t.Parallel()

	input := `{"7": {"cv_pt": ["java", "sql"], "formacao_e_idiomas": {"nivel_ingles": "Fluente"}}}`

	table, err := DecodeTable[Applicant](strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	applicant, _ := table.Get("7")
	if applicant.Resume != `["java","sql"]` {
		t.Fatalf("unexpected resume: %q", applicant.Resume)
	}
	if applicant.Education.English != "Fluente" {
		t.Fatalf("unexpected english level: %q", applicant.Education.English)
	}
}

func TestDecodeTableRejectsNonObject(t *testing.T) {
	t.Parallel()

	if _, err := DecodeTable[Job](strings.NewReader(`[1, 2]`), nil); err == nil {
		t.Fatal("expected error for a json array")
	}
}

func TestLoadTables(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	write(JobsFile, `{"j1": {"perfil_vaga": {"principais_atividades": "dev"}}}`)
	write(ApplicantsFile, `{"a1": {"cv_pt": "cv"}}`)
	write(ProspectsFile, `{"j1": {"prospects": [{"codigo": "a1", "situacao_candidado": "Aprovado"}]}}`)

	tables, err := LoadTables(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tables.Jobs.Len() != 1 || tables.Applicants.Len() != 1 || tables.Prospects.Len() != 1 {
		t.Fatalf("unexpected table sizes: %d %d %d", tables.Jobs.Len(), tables.Applicants.Len(), tables.Prospects.Len())
	}

	entry, _ := tables.Prospects.Get("j1")
	if entry.JobID != "j1" {
		t.Fatalf("expected job id to be set, got %q", entry.JobID)
	}
}

func TestLoadTablesMissingFile(t *testing.T) {
	_, err := LoadTables(t.TempDir())
	if !errors.Is(err, ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad, got %v", err)
	}
}

func TestLoadTablesMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, JobsFile), []byte(`{"j1": `), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadReference(dir)
	if !errors.Is(err, ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad, got %v", err)
	}
}

func TestTableHead(t *testing.T) {
	t.Parallel()

	table := NewTable[Job]()
	for _, id := range []string{"a", "b", "c"} {
		table.Put(id, &Job{ID: id})
	}
	table.Put("a", &Job{ID: "a"})

	tests := []struct {
		name   string
		n      int
		expect []string
	}{
		{name: "negative", n: -1, expect: []string{}},
		{name: "zero", n: 0, expect: []string{}},
		{name: "partial", n: 2, expect: []string{"a", "b"}},
		{name: "more than available", n: 10, expect: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := table.Head(tt.n); !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}
