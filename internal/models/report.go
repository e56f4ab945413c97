package models

import "time"

// TimestampLayout renders response timestamps in UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t for a response body.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Summary tallies every comparison in a report.
type Summary struct {
	TotalChecks int `json:"total_checks"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	Warnings    int `json:"warnings"`
}

// PassportData is the response projection of an IdentityRecord.
// Parent sections only fill the reduced set of fields; the rest are omitted.
type PassportData struct {
	PassportNumber   string            `json:"passport_number"`
	FullName         string            `json:"full_name"`
	GivenNames       string            `json:"given_names,omitempty"`
	Surname          string            `json:"surname,omitempty"`
	DateOfBirth      string            `json:"date_of_birth"`
	PlaceOfBirth     string            `json:"place_of_birth,omitempty"`
	Nationality      string            `json:"nationality"`
	Gender           string            `json:"gender,omitempty"`
	DocumentType     string            `json:"document_type,omitempty"`
	IssuingCountry   string            `json:"issuing_country,omitempty"`
	IssuingAuthority string            `json:"issuing_authority,omitempty"`
	IssueDate        string            `json:"issue_date,omitempty"`
	ExpiryDate       string            `json:"expiry_date,omitempty"`
	Validation       *ValidationReport `json:"validation"`
	ExtractionMethod ExtractionMethod  `json:"extraction_method"`
}

// PersonSection pairs a passport projection with its field comparisons.
type PersonSection struct {
	PassportData PassportData                `json:"passport_data"`
	Comparisons  map[string]ComparisonResult `json:"comparisons"`
}

// VerificationReport is built once per /check-docs request and discarded
// after the response is written.
type VerificationReport struct {
	Timestamp          string              `json:"timestamp"`
	Summary            Summary             `json:"summary"`
	Student            PersonSection       `json:"student"`
	Father             *PersonSection      `json:"father,omitempty"`
	Mother             *PersonSection      `json:"mother,omitempty"`
	TranslatedDocument TranslatedDocRecord `json:"translated_document"`
	Receipt            string              `json:"receipt,omitempty"`
}

// Comparisons flattens the comparisons of every present section.
func (r VerificationReport) Comparisons() []ComparisonResult {
	var out []ComparisonResult
	for _, s := range []*PersonSection{&r.Student, r.Father, r.Mother} {
		if s == nil {
			continue
		}
		for _, c := range s.Comparisons {
			out = append(out, c)
		}
	}
	return out
}
