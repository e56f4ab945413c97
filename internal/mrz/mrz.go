// Package mrz decodes the two-line TD3 machine-readable zone of a passport
// out of raw OCR text.
package mrz

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"doccheck/internal/extract"
	"doccheck/internal/models"
)

const (
	minLineLength = 20
	// minLine2Length covers the fixed fields up to the expiry check digit.
	minLine2Length = 28
	maxNameLength  = 50
	// corruptionMarker shows up when OCR reads filler characters as L.
	corruptionMarker = "LLLL"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	mrzCharsRe   = regexp.MustCompile(`^[A-Z0-9<]+$`)
)

// Parser decodes MRZ text and traces its decisions to a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser returns a Parser logging to logger, or to slog.Default when
// logger is nil.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse is NewParser(nil).Parse.
func Parse(text string) models.IdentityRecord {
	return NewParser(nil).Parse(text)
}

// Parse extracts an identity record from OCR text. When fewer than two MRZ
// candidate lines exist it falls back to labelled-field extraction. A
// structurally unusable MRZ yields a record carrying only RawText and Error.
func (p *Parser) Parse(text string) models.IdentityRecord {
	candidates := candidateLines(text)
	p.logger.Debug("mrz candidates", "count", len(candidates))

	if len(candidates) < 2 {
		p.logger.Debug("no mrz found, using fallback extraction")
		return extract.PassportFallback(text)
	}

	line1 := candidates[len(candidates)-2]
	line2 := candidates[len(candidates)-1]
	p.logger.Debug("mrz lines selected", "line1", line1, "line2", line2)

	rec, err := decode(text, line1, line2)
	if err != nil {
		p.logger.Debug("mrz decode failed", "error", err)
		failed := models.NewIdentityRecord(text)
		failed.Error = "MRZ parsing failed: " + err.Error()
		return failed
	}

	if len(rec.FullName) > maxNameLength || strings.Contains(rec.FullName, corruptionMarker) {
		p.logger.Debug("mrz name looks corrupted, reading names from visual zone", "name", rec.FullName)
		names := ReadableNames(text)
		if names.FullName != "" {
			rec.FullName = names.FullName
			if names.Surname != "" {
				rec.Surname = names.Surname
			}
			if names.GivenNames != "" {
				rec.GivenNames = names.GivenNames
			}
			rec.ExtractionMethod = models.MethodHybrid
		}
	}

	return rec
}

// candidateLines normalizes every line (no whitespace, upper case) and keeps
// the ones that look like MRZ: more than three fillers, or at least 30
// characters drawn only from the MRZ alphabet.
func candidateLines(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.ToUpper(whitespaceRe.ReplaceAllString(raw, ""))
		if len(line) < minLineLength {
			continue
		}
		if strings.Count(line, "<") > 3 || (len(line) >= 30 && mrzCharsRe.MatchString(line)) {
			out = append(out, line)
		}
	}
	return out
}

func decode(text, line1, line2 string) (models.IdentityRecord, error) {
	if len(line2) < minLine2Length {
		return models.IdentityRecord{}, fmt.Errorf("line 2 has %d characters, need at least %d", len(line2), minLine2Length)
	}

	rec := models.NewIdentityRecord(text)
	rec.ExtractionMethod = models.MethodMRZ
	rec.RawMRZLine1 = line1
	rec.RawMRZLine2 = line2

	rec.DocumentType = models.OrNotFound(slice(line1, 0, 1))
	rec.IssuingCountry = models.OrNotFound(stripFiller(slice(line1, 2, 5)))

	surname, given := splitName(slice(line1, 5, 44))
	rec.SetNames(given, surname)

	rec.PassportNumber = models.OrNotFound(stripFiller(slice(line2, 0, 9)))
	rec.CheckDigits[0] = models.OrNotFound(slice(line2, 9, 10))
	rec.Nationality = models.OrNotFound(stripFiller(slice(line2, 10, 13)))
	rec.DateOfBirth = models.OrNotFound(FormatDate(slice(line2, 13, 19)))
	rec.CheckDigits[1] = models.OrNotFound(slice(line2, 19, 20))
	rec.Gender = models.OrNotFound(slice(line2, 20, 21))
	rec.ExpiryDate = models.OrNotFound(FormatDate(slice(line2, 21, 27)))
	rec.CheckDigits[2] = models.OrNotFound(slice(line2, 27, 28))
	rec.PersonalNumber = models.OrNotFound(stripFiller(slice(line2, 28, 42)))
	rec.CheckDigits[3] = models.OrNotFound(slice(line2, 42, 43))
	rec.CompositeCheckDigit = models.OrNotFound(slice(line2, 43, 44))

	return rec, nil
}

// splitName splits the line-1 name block on the "<<" separator. Single
// fillers inside a part are dropped, so multi-word given names run together
// the way they are printed in the MRZ.
func splitName(block string) (surname, given string) {
	parts := strings.Split(block, "<<")
	surname = stripFiller(parts[0])
	if len(parts) > 1 {
		given = stripFiller(parts[1])
	}
	return surname, given
}

// FormatDate converts an MRZ YYMMDD date to YYYY-MM-DD. Years up to 30 are
// read as 20YY, later ones as 19YY. Input that is not six characters with
// a numeric year is returned unchanged.
func FormatDate(yymmdd string) string {
	if len(yymmdd) != 6 {
		return yymmdd
	}
	yy, err := strconv.Atoi(yymmdd[:2])
	if err != nil {
		return yymmdd
	}
	year := 1900 + yy
	if yy <= 30 {
		year = 2000 + yy
	}
	return fmt.Sprintf("%d-%s-%s", year, yymmdd[2:4], yymmdd[4:6])
}

func stripFiller(s string) string {
	return strings.ReplaceAll(s, "<", "")
}

// slice is s[from:to] clamped to the bounds of s.
func slice(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
