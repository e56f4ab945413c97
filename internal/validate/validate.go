// Package validate checks an extracted passport for missing required fields
// and implausible values.
package validate

import (
	"regexp"
	"time"

	"doccheck/internal/dates"
	"doccheck/internal/models"
)

var passportNumberRe = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)

// Passport validates rec as of now. Only missing required fields are errors.
// Format problems and expiry are reported as warnings.
func Passport(rec models.IdentityRecord, now time.Time) models.ValidationReport {
	report := models.ValidationReport{
		Errors:   []string{},
		Warnings: []string{},
	}

	for _, field := range models.RequiredFields {
		if !models.Present(rec.Field(field)) {
			report.Errors = append(report.Errors, "Missing required field: "+field)
		}
	}

	if models.Present(rec.PassportNumber) && !passportNumberRe.MatchString(rec.PassportNumber) {
		report.Warnings = append(report.Warnings, "Passport number format may be incorrect")
	}

	if models.Present(rec.Gender) {
		switch rec.Gender {
		case "M", "F", "X":
		default:
			report.Warnings = append(report.Warnings, "Gender should be M, F, or X")
		}
	}

	if models.Present(rec.DateOfBirth) && !dates.IsStrictISO(rec.DateOfBirth) {
		report.Warnings = append(report.Warnings, "Date of birth format may be incorrect")
	}

	if models.Present(rec.ExpiryDate) {
		if !dates.IsStrictISO(rec.ExpiryDate) {
			report.Warnings = append(report.Warnings, "Expiry date format may be incorrect")
		} else if expiry, err := time.Parse(dates.ISO, rec.ExpiryDate); err == nil && expiry.Before(now) {
			report.Warnings = append(report.Warnings, "Passport appears to be expired")
		}
	}

	report.IsValid = len(report.Errors) == 0
	return report
}
