package text

import (
	"strings"

	"github.com/spigell/decision-match/internal/records"
)

const (
	// FieldSeparator joins the fields of a single record.
	FieldSeparator = " \n "
	// PairSeparator joins job and applicant text. Models are trained on
	// Pair output, so inference must use Pair as well.
	PairSeparator = " [SEP] "
	// MinLength is the minimal length a record text must exceed to be used.
	MinLength = 5
)

// Clean collapses unicode whitespace runs into a single space and trims the result.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.Join(strings.Fields(raw), " ")
}

// JobText returns the text describing the job profile.
func JobText(job *records.Job) string {
	if job == nil {
		return ""
	}

	p := job.Profile
	return strings.Join([]string{
		Clean(p.MainActivities),
		Clean(p.Competencies),
		Clean(p.PracticeAreas),
		Clean(p.SeniorityLevel),
	}, FieldSeparator)
}

// ApplicantText returns the text describing the applicant.
func ApplicantText(applicant *records.Applicant) string {
	if applicant == nil {
		return ""
	}

	prof := applicant.Professional
	edu := applicant.Education
	languages := Clean(strings.Join([]string{edu.English, edu.Spanish, edu.Other}, " "))

	return strings.Join([]string{
		Clean(prof.Title),
		Clean(prof.PracticeArea),
		Clean(prof.TechnicalKnowledge),
		languages,
		Clean(applicant.Resume),
	}, FieldSeparator)
}

// Pair builds the classifier input out of job and applicant text.
func Pair(jobText, applicantText string) string {
	return jobText + PairSeparator + applicantText
}

// Enough reports whether the cleaned text is longer than MinLength runes.
// A record whose fields are all empty is reduced to nothing by Clean.
func Enough(s string) bool {
	return len([]rune(Clean(s))) > MinLength
}
