// Package similarity scores approximate string equality.
package similarity

import (
	"math"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Similarity returns 1 - levenshtein(a, b) / max(len(a), len(b)).
// It does no case or whitespace normalization; that is up to the caller.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return strutil.Similarity(a, b, metrics.NewLevenshtein())
}

// Percent is Similarity rounded to an integer in [0, 100].
func Percent(a, b string) int {
	return int(math.Round(Similarity(a, b) * 100))
}
