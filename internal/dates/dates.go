// Package dates parses dates written under many textual conventions and
// decides whether two of them name the same calendar day.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"doccheck/internal/models"
)

// ISO is the canonical layout used in records and messages.
const ISO = "2006-01-02"

// layouts are tried in order; the first full-string match wins. Day and
// month need two digits here. One-digit forms only parse through the
// numeric and month-name fallbacks of ParseFlexible.
var layouts = []string{
	"2006-01-02",       // YYYY-MM-DD
	"02/01/2006",       // DD/MM/YYYY
	"01/02/2006",       // MM/DD/YYYY
	"02-01-2006",       // DD-MM-YYYY
	"2006/01/02",       // YYYY/MM/DD
	"Jan 02, 2006",     // MMM DD, YYYY
	"January 02, 2006", // MMMM DD, YYYY
	"02 Jan 2006",      // DD MMM YYYY
	"02 January 2006",  // DD MMMM YYYY
}

var (
	cleanRe   = regexp.MustCompile(`[^\w\s\-/,]`)
	spaceRe   = regexp.MustCompile(`\s+`)
	numericRe = regexp.MustCompile(`(\d{1,2})[\s\-/](\d{1,2})[\s\-/](\d{4})`)
	monthRe   = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\s+(\d{1,2}),?\s+(\d{4})`)
)

// Clean blanks out everything except word characters, whitespace, '-', '/'
// and ',' and collapses the remaining whitespace.
func Clean(s string) string {
	s = cleanRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ParseFlexible parses s under the known layouts, then falls back to a bare
// D-M-YYYY pattern and finally a "<month> D, YYYY" pattern anywhere in s.
func ParseFlexible(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if m := numericRe.FindStringSubmatch(s); m != nil {
		iso := fmt.Sprintf("%s-%s-%s", m[3], pad2(m[2]), pad2(m[1]))
		if t, err := time.Parse(ISO, iso); err == nil {
			return t, true
		}
	}

	if m := monthRe.FindStringSubmatch(s); m != nil {
		written := fmt.Sprintf("%s %s, %s", m[1], m[2], m[3])
		if t, err := time.Parse("January 2, 2006", written); err == nil {
			return t, true
		}
		if t, err := time.Parse("Jan 2, 2006", written); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Compare reports whether d1 and d2 denote the same calendar day.
// There is no partial credit: the result is exact_match, mismatch or
// invalid_date.
func Compare(d1, d2 string) models.ComparisonResult {
	c1, c2 := Clean(d1), Clean(d2)

	t1, ok1 := ParseFlexible(c1)
	t2, ok2 := ParseFlexible(c2)
	if !ok1 || !ok2 {
		return models.ComparisonResult{
			Status:  models.StatusInvalidDate,
			Score:   0,
			Details: fmt.Sprintf("Cannot parse dates: %q and %q", c1, c2),
		}
	}

	if SameDay(t1, t2) {
		return models.ComparisonResult{
			Status:  models.StatusExactMatch,
			Score:   100,
			Details: "Dates match exactly",
		}
	}

	return models.ComparisonResult{
		Status:  models.StatusMismatch,
		Score:   0,
		Details: fmt.Sprintf("Dates do not match: %s vs %s", t1.Format(ISO), t2.Format(ISO)),
	}
}

// SameDay compares the calendar date of a and b, ignoring the clock.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsStrictISO reports whether s is exactly a valid YYYY-MM-DD date.
func IsStrictISO(s string) bool {
	_, err := time.Parse(ISO, s)
	return err == nil
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
