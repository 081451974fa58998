package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	partialScale     = 0.9
	partialScaleLong = 0.6
	partialMinRatio  = 1.5
	partialLongRatio = 8.0
	tokenSortScale   = 0.95
	perfectScore     = 100.0
)

// Ratio is the normalized edit-distance similarity of a and b on a 0-100 scale.
func Ratio(a, b string) float64 {
	if a == b {
		return perfectScore
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return perfectScore
	}
	d := levenshtein.ComputeDistance(a, b)
	return perfectScore * (1 - float64(d)/float64(longest))
}

func tokenSortRatio(a, b string) float64 {
	return tokenSortScale * Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// partialRatio slides the shorter string over the longer one and keeps the
// best window. It only applies when the lengths differ by half or more.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	lengthRatio := float64(len(long)) / float64(len(short))
	if lengthRatio < partialMinRatio {
		return 0
	}
	scale := partialScale
	if lengthRatio >= partialLongRatio {
		scale = partialScaleLong
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := Ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == perfectScore {
				break
			}
		}
	}
	return scale * best
}

// Similarity scores two normalized strings on a 0-100 scale, taking the best
// of the plain ratio, the token-sorted ratio and the partial window ratio.
// Identical strings always score 100.
func Similarity(query, value string) float64 {
	if query == value {
		return perfectScore
	}
	if query == "" || value == "" {
		return 0
	}
	return max(Ratio(query, value), tokenSortRatio(query, value), partialRatio(query, value))
}
