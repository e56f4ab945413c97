// Package compare scores a passport field against its counterpart on the
// translated document.
package compare

import (
	"fmt"
	"strings"

	"doccheck/internal/dates"
	"doccheck/internal/models"
	"doccheck/internal/similarity"
)

// Kind selects the comparison strategy for a field.
type Kind string

const (
	KindText    Kind = "text"
	KindName    Kind = "name"
	KindDate    Kind = "date"
	KindGeneric Kind = "generic"
)

// ParseKind maps a user-supplied kind to a Kind, defaulting to KindText.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindText, nil
	case KindText, KindName, KindDate, KindGeneric:
		return k, nil
	}
	return "", fmt.Errorf("unknown comparison kind %q", s)
}

// Field compares a passport value with a translated value. Text fields are
// compared like names.
func Field(passport, translated string, kind Kind) models.ComparisonResult {
	if !models.Present(passport) || !models.Present(translated) {
		return models.ComparisonResult{
			Status:  models.StatusMissing,
			Score:   0,
			Details: "One or both fields are missing",
		}
	}

	p := strings.ToLower(strings.TrimSpace(passport))
	t := strings.ToLower(strings.TrimSpace(translated))
	if p == t {
		return models.ComparisonResult{Status: models.StatusExactMatch, Score: 100, Details: "Perfect match"}
	}

	switch kind {
	case KindDate:
		return dates.Compare(p, t)
	case KindGeneric:
		return generic(p, t)
	default:
		return Names(p, t)
	}
}

func generic(p, t string) models.ComparisonResult {
	score := similarity.Percent(p, t)
	switch {
	case score == 100:
		return models.ComparisonResult{Status: models.StatusExactMatch, Score: score, Details: "Perfect match after normalization"}
	case score >= 90:
		return models.ComparisonResult{Status: models.StatusVeryCloseMatch, Score: score, Details: "Very high similarity"}
	case score >= 80:
		return models.ComparisonResult{Status: models.StatusCloseMatch, Score: score, Details: "High similarity"}
	case score >= 65:
		return models.ComparisonResult{Status: models.StatusPartialMatch, Score: score, Details: "Partial similarity"}
	default:
		return models.ComparisonResult{Status: models.StatusMismatch, Score: score, Details: "Low similarity - possible different values"}
	}
}
