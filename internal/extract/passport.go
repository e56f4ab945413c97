package extract

import "doccheck/internal/models"

var passportFallbackTable = Table{
	{Name: "passportNumber", Patterns: patterns(
		`(?i)passport\s+no[:\.\s]+([A-Z0-9]+)`,
		`(?i)passport\s+number[:\.\s]+([A-Z0-9]+)`,
		`(?i)no[:\.\s]+([A-Z0-9]{6,12})`,
		`^([A-Z]{2}\d{7})$`,
		`^([A-Z]\d{8})$`,
	)},
	{Name: "fullName", Patterns: patterns(
		`(?i)name[:\.\s]+(.+)`,
		`(?i)surname[:\.\s]+(.+)`,
		`(?i)holder[:\.\s]+(.+)`,
	)},
	{Name: "dateOfBirth", Patterns: patterns(
		`(?i)date\s+of\s+birth[:\.\s]+(.+)`,
		`(?i)dob[:\.\s]+(.+)`,
		`(?i)birth\s+date[:\.\s]+(.+)`,
		`(?i)born[:\.\s]+(.+)`,
	)},
	{Name: "nationality", Patterns: patterns(
		`(?i)nationality[:\.\s]+(.+)`,
		`(?i)citizen\s+of[:\.\s]+(.+)`,
	)},
	{Name: "gender", Patterns: patterns(
		`(?i)sex[:\.\s]+([MFX])`,
		`(?i)gender[:\.\s]+([MFX])`,
	)},
	{Name: "placeOfBirth", Patterns: patterns(
		`(?i)place\s+of\s+birth[:\.\s]+(.+)`,
		`(?i)birth\s+place[:\.\s]+(.+)`,
	)},
	{Name: "expiryDate", Patterns: patterns(
		`(?i)expiry[:\.\s]+(.+)`,
		`(?i)expires[:\.\s]+(.+)`,
		`(?i)valid\s+until[:\.\s]+(.+)`,
	)},
}

var passportDetailsTable = Table{
	{Name: "placeOfBirth", Patterns: patterns(
		`(?i)place\s+of\s+birth[:\s]+(.+)`,
		`(?i)birth\s+place[:\s]+(.+)`,
		`(?i)lieu\s+de\s+naissance[:\s]+(.+)`,
	)},
	{Name: "issuingAuthority", Patterns: patterns(
		`(?i)issuing\s+authority[:\s]+(.+)`,
		`(?i)issued\s+by[:\s]+(.+)`,
		`(?i)authority[:\s]+(.+)`,
	)},
	{Name: "issueDate", Patterns: patterns(
		`(?i)date\s+of\s+issue[:\s]+(.+)`,
		`(?i)issue\s+date[:\s]+(.+)`,
		`(?i)issued[:\s]+(.+)`,
	)},
}

// PassportFallback extracts what it can from passport text that has no
// usable MRZ. The result carries a full name only; name parts stay unset.
func PassportFallback(text string) models.IdentityRecord {
	rec := models.NewIdentityRecord(text)
	rec.ExtractionMethod = models.MethodFallback

	found := passportFallbackTable.Apply(Lines(text))
	rec.PassportNumber = models.OrNotFound(found["passportNumber"])
	rec.FullName = models.OrNotFound(found["fullName"])
	rec.DateOfBirth = models.OrNotFound(found["dateOfBirth"])
	rec.Nationality = models.OrNotFound(found["nationality"])
	rec.Gender = models.OrNotFound(found["gender"])
	rec.PlaceOfBirth = models.OrNotFound(found["placeOfBirth"])
	rec.ExpiryDate = models.OrNotFound(found["expiryDate"])
	return rec
}

// Details are the human-readable passport fields the MRZ does not encode.
type Details struct {
	PlaceOfBirth     string
	IssuingAuthority string
	IssueDate        string
}

// PassportDetails reads place of birth, issuing authority and issue date.
func PassportDetails(text string) Details {
	found := passportDetailsTable.Apply(Lines(text))
	return Details{
		PlaceOfBirth:     models.OrNotFound(found["placeOfBirth"]),
		IssuingAuthority: models.OrNotFound(found["issuingAuthority"]),
		IssueDate:        models.OrNotFound(found["issueDate"]),
	}
}

// FillGaps copies detail fields into rec where rec has no value yet.
// Values already on the record always win.
func (d Details) FillGaps(rec *models.IdentityRecord) {
	if !models.Present(rec.PlaceOfBirth) && models.Present(d.PlaceOfBirth) {
		rec.PlaceOfBirth = d.PlaceOfBirth
	}
	if !models.Present(rec.IssuingAuthority) && models.Present(d.IssuingAuthority) {
		rec.IssuingAuthority = d.IssuingAuthority
	}
	if !models.Present(rec.IssueDate) && models.Present(d.IssueDate) {
		rec.IssueDate = d.IssueDate
	}
}
