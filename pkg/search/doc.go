// Package search scores data-plan records against a free-text query for the
// dataplans tool.
//
// # Overview
//
// The engine keeps a normalized copy of every package code and name, built
// once from the loaded records, and compares queries against it with an
// edit-distance similarity on a 0-100 scale. It serves the web UI, the JSON
// API and the search command alike.
//
// # Key Features
//
//   - Fuzzy matching on package code and name with a configurable threshold
//   - Vietnamese diacritic folding, so "sieu toc" finds "Siêu tốc"
//   - Code boost: codes that start with or contain the query rank high
//   - Regex search over code, name, description or every text field
//   - Exact code lookup and autocomplete suggestions
//   - Parameter parsing from HTTP query strings
//
// # Scoring
//
// Both sides are normalized with Normalize first. The score of a value is the
// best of:
//
//   - ratio: 100 × (1 − levenshtein / longest length)
//   - token sort: 0.95 × ratio of the space-separated tokens sorted
//   - partial: when one string is at least 1.5 times longer, the best ratio of
//     the shorter string against every same-length window of the longer one,
//     scaled by 0.9 (0.6 once the length ratio reaches 8)
//
// A record scores the maximum over its searched fields. Identical values
// score 100 and end the scan for that record.
//
// # Usage Examples
//
// Basic search:
//
//	engine := search.NewEngine(records, search.DefaultCodeBoost)
//	rs, err := engine.Search("D15", search.Options{Threshold: 70})
//
// Search restricted to one source:
//
//	rs, err := engine.Search("big", search.Options{
//		Threshold: 60,
//		Filter:    func(r *core.Record) bool { return r.Source == core.SourceVinaphone },
//	})
//
// Regex over every text field:
//
//	rs, err := engine.Regex("^MI_.*150", search.RegexOptions{Scope: search.ScopeAll})
//
// Parsing HTTP parameters:
//
//	params, err := search.ParseParams(r.URL.Query())
//	if err != nil {
//		// *core.ValidationError, reply 400
//	}
//	rs, err := engine.Run(params, criteria.Match)
//
// # Thread Safety
//
// An Engine is read-only after NewEngine and safe for concurrent use.
package search
