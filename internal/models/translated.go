package models

// TranslatedDocRecord holds the fields read from the translated document.
type TranslatedDocRecord struct {
	StudentName  string `json:"student_name"`
	FatherName   string `json:"father_name"`
	MotherName   string `json:"mother_name"`
	DOB          string `json:"dob"`
	PlaceOfBirth string `json:"place_of_birth"`
	Nationality  string `json:"nationality"`
	RawText      string `json:"rawText"`
	Error        string `json:"error,omitempty"`
}

// NewTranslatedDocRecord returns a record with every field set to NotFound.
func NewTranslatedDocRecord(rawText string) TranslatedDocRecord {
	return TranslatedDocRecord{
		StudentName:  NotFound,
		FatherName:   NotFound,
		MotherName:   NotFound,
		DOB:          NotFound,
		PlaceOfBirth: NotFound,
		Nationality:  NotFound,
		RawText:      rawText,
	}
}
