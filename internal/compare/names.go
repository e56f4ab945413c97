package compare

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"doccheck/internal/models"
	"doccheck/internal/similarity"
)

const (
	partThreshold     = 0.8
	coreThreshold     = 0.7
	coreCheckBelow    = 70
	minCorePartLength = 4
)

var (
	punctuationRe = regexp.MustCompile(`[^\w\s]`)
	spacesRe      = regexp.MustCompile(`\s+`)
	// patronymic endings vary between transliterations and are ignored
	// when matching core names
	patronymicSuffixes = []string{"ovna", "ovich"}
)

// Names compares two personal names part by part, tolerating reordering,
// transliteration noise and patronymic differences.
func Names(passport, translated string) models.ComparisonResult {
	p := normalizeName(passport)
	t := normalizeName(translated)
	if p == t {
		return models.ComparisonResult{Status: models.StatusExactMatch, Score: 100, Details: "Perfect match"}
	}

	pParts := strings.Fields(p)
	tParts := strings.Fields(t)

	total := max(len(pParts), len(tParts))
	score := 0
	if total > 0 {
		score = int(math.Round(float64(countMatches(pParts, tParts, partThreshold)) / float64(total) * 100))
	}

	if score < coreCheckBelow {
		pCore := coreParts(pParts)
		tCore := coreParts(tParts)
		matches := countMatches(pCore, tCore, coreThreshold)
		if matches > 0 && matches >= min(len(pCore), len(tCore)) {
			return models.ComparisonResult{
				Status:  models.StatusCloseMatch,
				Score:   75 + matches*5,
				Details: fmt.Sprintf("Core names match: %d of %d parts", matches, max(len(pCore), len(tCore))),
			}
		}
	}

	switch {
	case score == 100:
		return models.ComparisonResult{Status: models.StatusExactMatch, Score: score, Details: "Perfect name match"}
	case score >= 90:
		return models.ComparisonResult{Status: models.StatusVeryCloseMatch, Score: score, Details: "Very high name similarity"}
	case score >= 75:
		return models.ComparisonResult{Status: models.StatusCloseMatch, Score: score, Details: "High name similarity"}
	case score >= 50:
		return models.ComparisonResult{Status: models.StatusPartialMatch, Score: score, Details: "Partial name similarity"}
	default:
		return models.ComparisonResult{Status: models.StatusMismatch, Score: score, Details: "Low name similarity"}
	}
}

func normalizeName(s string) string {
	s = punctuationRe.ReplaceAllString(strings.ToLower(s), "")
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// countMatches counts the parts of a that have a counterpart in b with at
// least the given similarity.
func countMatches(a, b []string, threshold float64) int {
	n := 0
	for _, x := range a {
		for _, y := range b {
			if similarity.Similarity(x, y) >= threshold {
				n++
				break
			}
		}
	}
	return n
}

func coreParts(parts []string) []string {
	var out []string
outer:
	for _, part := range parts {
		if len(part) < minCorePartLength {
			continue
		}
		for _, suffix := range patronymicSuffixes {
			if strings.Contains(part, suffix) {
				continue outer
			}
		}
		out = append(out, part)
	}
	return out
}
