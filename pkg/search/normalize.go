package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// Normalize prepares a value for comparison: diacritics are folded to
// ASCII (Vietnamese "đ" becomes "d"), letters are upper-cased and runs of
// whitespace collapse to a single space.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = dStroke.Replace(folded)
	return strings.Join(strings.Fields(strings.ToUpper(folded)), " ")
}
