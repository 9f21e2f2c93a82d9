package text

import (
	"strings"
	"testing"

	"github.com/spigell/decision-match/internal/records"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty", input: "", expect: ""},
		{name: "only spaces", input: " \t\n ", expect: ""},
		{name: "non-breaking space", input: "java\u00a0 spring", expect: "java spring"},
		{name: "collapses runs", input: "java   \n\t spring", expect: "java spring"},
		{name: "trims", input: "  sap  ", expect: "sap"},
		{name: "keeps unicode", input: "Não  Aprovado", expect: "Não Aprovado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Clean(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"  a  b  ",
		" nbsp  text",
		"line\r\nbreak\vvertical\ffeed",
		strings.Repeat(" x ", 50),
		"Não Aprovado pelo RH",
	}

	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Fatalf("clean is not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestJobText(t *testing.T) {
	t.Parallel()

	job := &records.Job{Profile: records.JobProfile{
		MainActivities: "  desenvolver   APIs ",
		Competencies:   "java\nspring",
		SeniorityLevel: "Sênior",
	}}

	want := "desenvolver APIs \n java spring \n  \n Sênior"
	if got := JobText(job); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := JobText(nil); got != "" {
		t.Fatalf("expected empty text for nil job, got %q", got)
	}
}

func TestApplicantText(t *testing.T) {
	t.Parallel()

	applicant := &records.Applicant{
		Professional: records.ProfessionalInfo{
			Title:              "Dev",
			PracticeArea:       "TI",
			TechnicalKnowledge: "Go",
		},
		Education: records.EducationInfo{English: "Fluente", Other: "Francês"},
		Resume:    "cv  text",
	}

	want := "Dev \n TI \n Go \n Fluente Francês \n cv text"
	if got := ApplicantText(applicant); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPair(t *testing.T) {
	t.Parallel()

	if got := Pair("pede java", "java spring"); got != "pede java [SEP] java spring" {
		t.Fatalf("unexpected pair: %q", got)
	}
}

func TestEnough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect bool
	}{
		{input: "", expect: false},
		{input: "12345", expect: false},
		{input: "123456", expect: true},
		{input: " \n  \n  \n ", expect: false},
		{input: "ããããã", expect: false},
		{input: "çççççç", expect: true},
	}

	for _, tt := range tests {
		if got := Enough(tt.input); got != tt.expect {
			t.Fatalf("Enough(%q): expected %v, got %v", tt.input, tt.expect, got)
		}
	}
}
