package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"doccheck/internal/models"
)

func TestTable_FirstPatternWins(t *testing.T) {
	table := Table{
		{Name: "id", Patterns: patterns(`id[:\s]+(\w+)`, `(\d+)`)},
	}

	found := table.Apply([]string{"id: ABC 123"})
	assert.Equal(t, "ABC", found["id"])
}

func TestTable_FoundFieldIsNotOverwritten(t *testing.T) {
	table := Table{
		{Name: "city", Patterns: patterns(`(?i)city[:\s]+(.+)`)},
	}

	found := table.Apply([]string{"City: Tashkent", "City: Samarkand"})
	assert.Equal(t, "Tashkent", found["city"])
}

func TestTable_MissingFieldIsAbsent(t *testing.T) {
	table := Table{
		{Name: "city", Patterns: patterns(`(?i)city[:\s]+(.+)`)},
	}

	found := table.Apply([]string{"nothing here"})
	_, ok := found["city"]
	assert.False(t, ok)
}

func TestPassportFallback(t *testing.T) {
	text := "REPUBLIC OF TESTLAND\n" +
		"Passport No: AB1234567\n" +
		"Name: JOHN SMITH\n" +
		"Date of Birth: 1990-01-15\n" +
		"Nationality: TESTLANDER\n" +
		"Sex: M\n" +
		"Place of Birth: Springfield\n" +
		"Expiry: 2030-01-01\n"

	rec := PassportFallback(text)

	assert.Equal(t, models.MethodFallback, rec.ExtractionMethod)
	assert.Equal(t, "AB1234567", rec.PassportNumber)
	assert.Equal(t, "JOHN SMITH", rec.FullName)
	assert.Equal(t, "1990-01-15", rec.DateOfBirth)
	assert.Equal(t, "TESTLANDER", rec.Nationality)
	assert.Equal(t, "M", rec.Gender)
	assert.Equal(t, "Springfield", rec.PlaceOfBirth)
	assert.Equal(t, "2030-01-01", rec.ExpiryDate)
	assert.Equal(t, models.NotFound, rec.Surname)
	assert.Equal(t, text, rec.RawText)
}

func TestPassportFallback_BarePassportNumber(t *testing.T) {
	rec := PassportFallback("some header\r\nAB1234567\r\n")
	assert.Equal(t, "AB1234567", rec.PassportNumber)
	assert.Equal(t, models.NotFound, rec.FullName)
	assert.Equal(t, 1, rec.FieldsFound())
}

func TestPassportDetails(t *testing.T) {
	d := PassportDetails("Place of birth: TASHKENT\nIssuing authority: MIA 12345\nDate of issue: 2019-03-01")

	assert.Equal(t, "TASHKENT", d.PlaceOfBirth)
	assert.Equal(t, "MIA 12345", d.IssuingAuthority)
	assert.Equal(t, "2019-03-01", d.IssueDate)
}

func TestDetails_FillGapsKeepsExistingValues(t *testing.T) {
	rec := models.NewIdentityRecord("")
	rec.PlaceOfBirth = "SAMARKAND"

	Details{
		PlaceOfBirth:     "TASHKENT",
		IssuingAuthority: "MIA 12345",
		IssueDate:        models.NotFound,
	}.FillGaps(&rec)

	assert.Equal(t, "SAMARKAND", rec.PlaceOfBirth)
	assert.Equal(t, "MIA 12345", rec.IssuingAuthority)
	assert.Equal(t, models.NotFound, rec.IssueDate)
}

func TestTranslatedDoc(t *testing.T) {
	text := "TRANSLATION FROM UZBEK\n" +
		"Full name: Abdukodirova Rayyona Zokirovna\n" +
		"Father: Abdukodirov Zokir Karimovich\n" +
		"Mother's name: Karimova Dilnoza\n" +
		"Date of birth: May 06, 2007 (two thousand and seven)\n" +
		"Place of birth: Tashkent\n" +
		"Nationality: Uzbek\n"

	rec := TranslatedDoc(text)

	assert.Equal(t, "Abdukodirova Rayyona Zokirovna", rec.StudentName)
	assert.Equal(t, "Abdukodirov Zokir Karimovich", rec.FatherName)
	assert.Equal(t, "Karimova Dilnoza", rec.MotherName)
	assert.Equal(t, "May 06, 2007 (two thousand and seven)", rec.DOB)
	assert.Equal(t, "Tashkent", rec.PlaceOfBirth)
	assert.Equal(t, "Uzbek", rec.Nationality)
	assert.Equal(t, text, rec.RawText)
}

func TestTranslatedDoc_PatronymicFallback(t *testing.T) {
	rec := TranslatedDoc("CERTIFICATE\nAbdukodirova Rayyona\nZokirovna\n")

	assert.Equal(t, "Abdukodirova Rayyona Zokirovna", rec.StudentName)
	assert.Equal(t, models.NotFound, rec.FatherName)
	assert.Equal(t, models.NotFound, rec.DOB)
}

func TestTranslatedDoc_NothingFound(t *testing.T) {
	rec := TranslatedDoc("")

	assert.Equal(t, models.NotFound, rec.StudentName)
	assert.Equal(t, models.NotFound, rec.MotherName)
	assert.Equal(t, models.NotFound, rec.Nationality)
}
