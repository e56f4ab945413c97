// Package report assembles the verification report from the extracted
// passports and the translated document.
package report

import (
	"strings"
	"time"

	"doccheck/internal/compare"
	"doccheck/internal/models"
)

// Comparison keys used in every person section.
const (
	FieldName         = "name"
	FieldDateOfBirth  = "date_of_birth"
	FieldPlaceOfBirth = "place_of_birth"
	FieldNationality  = "nationality"
)

// Inputs are the extraction results of one request. Father and Mother are
// nil when that passport was not supplied.
type Inputs struct {
	Student    models.IdentityRecord
	Father     *models.IdentityRecord
	Mother     *models.IdentityRecord
	Translated models.TranslatedDocRecord
}

// Build compares the student passport with the translated document, and each
// supplied parent passport with the parent name on it.
func Build(in Inputs, now time.Time) models.VerificationReport {
	tr := in.Translated
	r := models.VerificationReport{
		Timestamp: models.Timestamp(now),
		Student: models.PersonSection{
			PassportData: studentData(in.Student),
			Comparisons: map[string]models.ComparisonResult{
				FieldName:         compare.Field(in.Student.FullName, tr.StudentName, compare.KindName),
				FieldDateOfBirth:  compare.Field(in.Student.DateOfBirth, tr.DOB, compare.KindDate),
				FieldPlaceOfBirth: compare.Field(in.Student.PlaceOfBirth, tr.PlaceOfBirth, compare.KindText),
				FieldNationality:  compare.Field(in.Student.Nationality, tr.Nationality, compare.KindText),
			},
		},
		TranslatedDocument: tr,
	}

	r.Father = parentSection(in.Father, tr.FatherName)
	r.Mother = parentSection(in.Mother, tr.MotherName)

	r.Summary = Summarize(r.Comparisons())
	return r
}

func parentSection(rec *models.IdentityRecord, translatedName string) *models.PersonSection {
	if rec == nil || !models.Present(translatedName) {
		return nil
	}
	return &models.PersonSection{
		PassportData: parentData(*rec),
		Comparisons: map[string]models.ComparisonResult{
			FieldName: compare.Field(rec.FullName, translatedName, compare.KindName),
		},
	}
}

// Summarize tallies comparison outcomes. Every status ending in "match"
// except mismatch counts as passed, partial matches included.
func Summarize(results []models.ComparisonResult) models.Summary {
	s := models.Summary{TotalChecks: len(results)}
	for _, c := range results {
		switch {
		case c.Status == models.StatusMismatch:
			s.Failed++
		case c.Status == models.StatusMissing:
			s.Warnings++
		case strings.HasSuffix(string(c.Status), "match"):
			s.Passed++
		}
	}
	return s
}

func studentData(rec models.IdentityRecord) models.PassportData {
	return models.PassportData{
		PassportNumber:   models.OrNotFound(rec.PassportNumber),
		FullName:         models.OrNotFound(rec.FullName),
		GivenNames:       models.OrNotFound(rec.GivenNames),
		Surname:          models.OrNotFound(rec.Surname),
		DateOfBirth:      models.OrNotFound(rec.DateOfBirth),
		PlaceOfBirth:     models.OrNotFound(rec.PlaceOfBirth),
		Nationality:      models.OrNotFound(rec.Nationality),
		Gender:           models.OrNotFound(rec.Gender),
		DocumentType:     models.OrNotFound(rec.DocumentType),
		IssuingCountry:   models.OrNotFound(rec.IssuingCountry),
		IssuingAuthority: models.OrNotFound(rec.IssuingAuthority),
		IssueDate:        models.OrNotFound(rec.IssueDate),
		ExpiryDate:       models.OrNotFound(rec.ExpiryDate),
		Validation:       validation(rec),
		ExtractionMethod: method(rec),
	}
}

func parentData(rec models.IdentityRecord) models.PassportData {
	return models.PassportData{
		PassportNumber:   models.OrNotFound(rec.PassportNumber),
		FullName:         models.OrNotFound(rec.FullName),
		DateOfBirth:      models.OrNotFound(rec.DateOfBirth),
		Nationality:      models.OrNotFound(rec.Nationality),
		Validation:       validation(rec),
		ExtractionMethod: method(rec),
	}
}

func validation(rec models.IdentityRecord) *models.ValidationReport {
	if rec.Validation != nil {
		return rec.Validation
	}
	return &models.ValidationReport{IsValid: true, Errors: []string{}, Warnings: []string{}}
}

func method(rec models.IdentityRecord) models.ExtractionMethod {
	if rec.ExtractionMethod == "" {
		return models.MethodMRZ
	}
	return rec.ExtractionMethod
}
