package search

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Similarity returns the normalized Levenshtein similarity of a and b in [0, 1].
// Two empty strings are identical by definition.
func Similarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}

	distance := edlib.LevenshteinDistance(a, b)
	return 1 - float64(distance)/float64(maxLen)
}
