package search

import (
	"sort"
	"strings"
)

// DefaultSuggestLimit is used when Suggest is called with a non-positive limit.
const DefaultSuggestLimit = 5

const suggestMinScore = 70.0

// Suggest returns up to limit distinct package codes for autocompletion.
// Codes starting with prefix come first in dataset order, followed by the
// closest fuzzy matches scoring above 70.
func (e *Engine) Suggest(prefix string, limit int) []string {
	q := Normalize(prefix)
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	seen := map[string]bool{}
	var out []string
	for i, ent := range e.index {
		if len(out) >= limit {
			return out
		}
		code := e.records[i].PackageCode
		if strings.HasPrefix(ent.code, q) && !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}

	type candidate struct {
		code  string
		score float64
	}
	var fuzzy []candidate
	for i, ent := range e.index {
		code := e.records[i].PackageCode
		if code == "" || seen[code] {
			continue
		}
		if s := Similarity(q, ent.code); s > suggestMinScore {
			seen[code] = true
			fuzzy = append(fuzzy, candidate{code, s})
		}
	}
	sort.SliceStable(fuzzy, func(a, b int) bool { return fuzzy[a].score > fuzzy[b].score })

	for _, c := range fuzzy {
		if len(out) >= limit {
			break
		}
		out = append(out, c.code)
	}
	return out
}
