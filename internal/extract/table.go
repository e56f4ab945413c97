// Package extract pulls labelled fields out of free-form OCR text using
// ordered tables of alternative patterns.
package extract

import (
	"regexp"
	"strings"
)

// Field is one target field and the patterns that can find it, in
// priority order. Each pattern must capture the value in group 1.
type Field struct {
	Name     string
	Patterns []*regexp.Regexp
}

// Table is an ordered list of fields. Order matters: within a line the
// first matching pattern of a field wins, and a found field is never
// overwritten by a later line.
type Table []Field

// Apply scans lines top to bottom and returns the first value found for
// each field. Fields with no match are absent from the result.
func (t Table) Apply(lines []string) map[string]string {
	found := make(map[string]string, len(t))
	for _, line := range lines {
		for _, f := range t {
			if _, ok := found[f.Name]; ok {
				continue
			}
			for _, re := range f.Patterns {
				m := re.FindStringSubmatch(line)
				if m == nil {
					continue
				}
				if v := strings.TrimSpace(m[1]); v != "" {
					found[f.Name] = v
				}
				break
			}
		}
	}
	return found
}

// Lines splits OCR text into lines, dropping carriage returns.
func Lines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}
