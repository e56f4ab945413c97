package models

// ValidationReport annotates a passport record. Errors mean a required
// field is missing; warnings never invalidate the record.
type ValidationReport struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ComparisonStatus is the outcome class of one field comparison.
type ComparisonStatus string

const (
	StatusMissing        ComparisonStatus = "missing"
	StatusExactMatch     ComparisonStatus = "exact_match"
	StatusVeryCloseMatch ComparisonStatus = "very_close_match"
	StatusCloseMatch     ComparisonStatus = "close_match"
	StatusPartialMatch   ComparisonStatus = "partial_match"
	StatusMismatch       ComparisonStatus = "mismatch"
	StatusInvalidDate    ComparisonStatus = "invalid_date"
)

// ComparisonResult is produced once per compared field pair.
type ComparisonResult struct {
	Status  ComparisonStatus `json:"status"`
	Score   int              `json:"score"`
	Details string           `json:"details"`
}
