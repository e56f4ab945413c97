package extract

import (
	"regexp"
	"strings"

	"doccheck/internal/models"
)

var translatedTable = Table{
	{Name: "student_name", Patterns: patterns(
		`^([A-Z][a-z]+ [A-Z][a-z]+ [A-Z][a-z]+)$`,
		`(?i)student\s+name[:\s]+(.+)`,
		`(?i)name\s+of\s+student[:\s]+(.+)`,
		`(?i)full\s+name[:\s]+(.+)`,
		`([A-Z][a-z]+\s+[A-Z][a-z]+\s+[A-Z][a-z]+)`,
	)},
	{Name: "father_name", Patterns: patterns(
		`(?i)father[:\s]+([A-Z][a-z]+\s+[A-Z][a-z]+\s+[A-Z][a-z]+)`,
		`(?i)father['\s]*s?\s+name[:\s]+(.+)`,
		`(?i)name\s+of\s+father[:\s]+(.+)`,
	)},
	{Name: "mother_name", Patterns: patterns(
		`(?i)mother[:\s]+([A-Z][a-z]+\s+[A-Z][a-z]+)`,
		`(?i)mother['\s]*s?\s+name[:\s]+(.+)`,
		`(?i)name\s+of\s+mother[:\s]+(.+)`,
	)},
	{Name: "dob", Patterns: patterns(
		`(?i)date\s+of\s+birth[:\s]+(.+)`,
		`(?i)dob[:\s]+(.+)`,
		`(?i)birth\s+date[:\s]+(.+)`,
		`(?i)born[:\s]+(.+)`,
	)},
	{Name: "place_of_birth", Patterns: patterns(
		`(?i)place\s+of\s+birth[:\s]+(.+)`,
		`(?i)birth\s+place[:\s]+(.+)`,
		`(?i)born\s+in[:\s]+(.+)`,
	)},
	{Name: "nationality", Patterns: patterns(
		`(?i)nationality[:\s]+(.+)`,
		`(?i)\(ethnic\)[:\s]*(.+)`,
		`(?i)citizen\s+of[:\s]+(.+)`,
	)},
}

// patronymicNameRe is tried over the whole text when no labelled student
// name was found: surname ending in -ov/-ova followed by a given name and
// a patronymic ending in -ovn/-ovna.
var patronymicNameRe = regexp.MustCompile(`([A-Z][a-z]+ova?\s+[A-Z][a-z]+\s+[A-Z][a-z]+ovna?)`)

// TranslatedDoc extracts the student and parent fields of a translated
// document.
func TranslatedDoc(text string) models.TranslatedDocRecord {
	rec := models.NewTranslatedDocRecord(text)
	found := translatedTable.Apply(Lines(text))

	student := found["student_name"]
	if student == "" {
		if m := patronymicNameRe.FindStringSubmatch(text); m != nil {
			student = m[1]
		}
	}

	rec.StudentName = models.OrNotFound(strings.Join(strings.Fields(student), " "))
	rec.FatherName = models.OrNotFound(found["father_name"])
	rec.MotherName = models.OrNotFound(found["mother_name"])
	rec.DOB = models.OrNotFound(found["dob"])
	rec.PlaceOfBirth = models.OrNotFound(found["place_of_birth"])
	rec.Nationality = models.OrNotFound(found["nationality"])
	return rec
}
