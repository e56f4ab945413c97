package mrz

import (
	"regexp"
	"strings"
)

var (
	surnameLabelRe  = regexp.MustCompile(`(?i)SURNAME|FAMLIYAS!`)
	givenLabelRe    = regexp.MustCompile(`(?i)GIVEN.*NAMES|GVEN.*NAMES`)
	afterSurnameRe  = regexp.MustCompile(`(?i)GIVEN|NAMES|SEX|DATE`)
	afterGivenNames = regexp.MustCompile(`(?i)SEX|DATE|PLACE|BIRTH`)
)

// Names are the holder names printed in the visual zone of a passport.
type Names struct {
	Surname    string
	GivenNames string
	FullName   string
}

// ReadableNames looks for the surname and given-names labels and takes the
// line that follows each, unless that line is itself another label.
func ReadableNames(text string) Names {
	lines := strings.Split(text, "\n")
	var n Names

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		next := ""
		if i+1 < len(lines) {
			next = strings.TrimSpace(lines[i+1])
		}

		if surnameLabelRe.MatchString(line) && next != "" && !afterSurnameRe.MatchString(next) {
			n.Surname = next
		}
		if givenLabelRe.MatchString(line) && next != "" && !afterGivenNames.MatchString(next) {
			n.GivenNames = next
		}
	}

	switch {
	case n.Surname != "" && n.GivenNames != "":
		n.FullName = n.GivenNames + " " + n.Surname
	case n.Surname != "":
		n.FullName = n.Surname
	case n.GivenNames != "":
		n.FullName = n.GivenNames
	}
	return n
}
