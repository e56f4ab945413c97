package models

import "strings"

// NotFound marks a field that no extraction strategy could populate.
// Records never omit fields; callers compare against this value instead.
const NotFound = "Not found"

// Present reports whether v carries a real extracted value.
func Present(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != NotFound
}

// OrNotFound returns v trimmed, or NotFound when it is blank.
func OrNotFound(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return NotFound
	}
	return v
}

// ExtractionMethod records which strategy produced an IdentityRecord.
type ExtractionMethod string

const (
	MethodMRZ      ExtractionMethod = "mrz"
	MethodHybrid   ExtractionMethod = "hybrid"
	MethodFallback ExtractionMethod = "fallback"
)

// IdentityRecord is the normalized result of extracting one passport.
type IdentityRecord struct {
	DocumentType        string            `json:"documentType"`
	IssuingCountry      string            `json:"issuingCountry"`
	Surname             string            `json:"surname"`
	GivenNames          string            `json:"givenNames"`
	FullName            string            `json:"fullName"`
	PassportNumber      string            `json:"passportNumber"`
	Nationality         string            `json:"nationality"`
	DateOfBirth         string            `json:"dateOfBirth"`
	Gender              string            `json:"gender"`
	ExpiryDate          string            `json:"expiryDate"`
	PersonalNumber      string            `json:"personalNumber"`
	CheckDigits         [4]string         `json:"checkDigits"`
	CompositeCheckDigit string            `json:"compositeCheckDigit"`
	PlaceOfBirth        string            `json:"placeOfBirth"`
	IssuingAuthority    string            `json:"issuingAuthority"`
	IssueDate           string            `json:"issueDate"`
	ExtractionMethod    ExtractionMethod  `json:"extractionMethod"`
	RawText             string            `json:"rawText"`
	RawMRZLine1         string            `json:"rawMRZ1"`
	RawMRZLine2         string            `json:"rawMRZ2"`
	Error               string            `json:"error,omitempty"`
	Validation          *ValidationReport `json:"validation,omitempty"`
}

// NewIdentityRecord returns a record with every field set to NotFound.
func NewIdentityRecord(rawText string) IdentityRecord {
	return IdentityRecord{
		DocumentType:        NotFound,
		IssuingCountry:      NotFound,
		Surname:             NotFound,
		GivenNames:          NotFound,
		FullName:            NotFound,
		PassportNumber:      NotFound,
		Nationality:         NotFound,
		DateOfBirth:         NotFound,
		Gender:              NotFound,
		ExpiryDate:          NotFound,
		PersonalNumber:      NotFound,
		CheckDigits:         [4]string{NotFound, NotFound, NotFound, NotFound},
		CompositeCheckDigit: NotFound,
		PlaceOfBirth:        NotFound,
		IssuingAuthority:    NotFound,
		IssueDate:           NotFound,
		ExtractionMethod:    MethodMRZ,
		RawText:             rawText,
		RawMRZLine1:         NotFound,
		RawMRZLine2:         NotFound,
	}
}

// SetNames stores the name parts and derives FullName from them.
func (r *IdentityRecord) SetNames(givenNames, surname string) {
	r.GivenNames = OrNotFound(givenNames)
	r.Surname = OrNotFound(surname)
	r.FullName = OrNotFound(strings.TrimSpace(value(givenNames) + " " + value(surname)))
}

// RequiredFields lists the fields that make a passport record usable, in
// the order they are scored and validated.
var RequiredFields = []string{"passportNumber", "fullName", "dateOfBirth", "nationality", "gender"}

// Field returns the value of a named field (JSON key), or "" if unknown.
func (r IdentityRecord) Field(name string) string {
	switch name {
	case "passportNumber":
		return r.PassportNumber
	case "fullName":
		return r.FullName
	case "dateOfBirth":
		return r.DateOfBirth
	case "nationality":
		return r.Nationality
	case "gender":
		return r.Gender
	case "expiryDate":
		return r.ExpiryDate
	case "placeOfBirth":
		return r.PlaceOfBirth
	case "issuingAuthority":
		return r.IssuingAuthority
	case "issueDate":
		return r.IssueDate
	case "surname":
		return r.Surname
	case "givenNames":
		return r.GivenNames
	}
	return ""
}

// FieldsFound counts the required fields carrying a real value.
func (r IdentityRecord) FieldsFound() int {
	n := 0
	for _, f := range RequiredFields {
		if Present(r.Field(f)) {
			n++
		}
	}
	return n
}

func value(v string) string {
	if !Present(v) {
		return ""
	}
	return strings.TrimSpace(v)
}
