package search

import (
	"sort"
	"strings"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/log"
)

// Field names a record attribute the fuzzy search can score.
type Field string

const (
	FieldCode Field = core.ColPackageCode
	FieldName Field = core.ColPackageName
)

// DefaultFields are scored when Options.Fields is empty.
var DefaultFields = []Field{FieldCode, FieldName}

// DefaultThreshold is the minimum score used when callers do not choose one.
const DefaultThreshold = 60.0

// CodeBoost raises the score of package codes that contain the query.
// An exact code match always scores 100.
type CodeBoost struct {
	// Prefix is the minimum score of a code that starts with the query.
	Prefix float64
	// Substring is the minimum score of a code that contains the query elsewhere.
	Substring float64
}

// DefaultCodeBoost ranks "D15" just below an exact hit for query "D15" when
// searching "D150".
var DefaultCodeBoost = CodeBoost{Prefix: 95, Substring: 90}

// Options controls a fuzzy search.
type Options struct {
	// Threshold is the inclusive minimum score, 0-100.
	Threshold float64
	// Fields to score. Empty means DefaultFields.
	Fields []Field
	// Limit truncates the ordered results. Zero means unlimited.
	Limit int
	// Filter, when set, drops records before they are scored.
	Filter func(*core.Record) bool
}

type entry struct {
	code string
	name string
}

// Engine searches a fixed slice of records. It is safe for concurrent use.
type Engine struct {
	records []core.Record
	index   []entry
	boost   CodeBoost
	logger  *log.Logger
}

// NewEngine indexes records. The slice is retained and must not be modified.
func NewEngine(records []core.Record, boost CodeBoost) *Engine {
	idx := make([]entry, len(records))
	for i := range records {
		idx[i] = entry{
			code: Normalize(records[i].PackageCode),
			name: Normalize(records[i].PackageName),
		}
	}
	return &Engine{
		records: records,
		index:   idx,
		boost:   boost,
		logger:  log.ForService("search"),
	}
}

// Len returns the number of indexed records.
func (e *Engine) Len() int { return len(e.records) }

// Search returns every record whose best field score reaches the threshold,
// ordered by descending score. Ties keep dataset order. A blank query yields
// an empty result set.
func (e *Engine) Search(query string, opts Options) (core.ResultSet, error) {
	rs := core.ResultSet{Scored: true, Kind: core.KindFuzzy, Query: query}
	if opts.Threshold < 0 || opts.Threshold > 100 {
		return rs, core.NewValidationError("threshold", "must be between 0 and 100, got %g", opts.Threshold)
	}
	if opts.Limit < 0 {
		return rs, core.NewValidationError("limit", "must not be negative, got %d", opts.Limit)
	}
	fields := opts.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}
	for _, f := range fields {
		if f != FieldCode && f != FieldName {
			return rs, core.NewValidationError("fields", "unknown field %q", f)
		}
	}

	q := Normalize(query)
	if q == "" {
		return rs, nil
	}

	for i := range e.records {
		if opts.Filter != nil && !opts.Filter(&e.records[i]) {
			continue
		}
		score, field := e.scoreRecord(q, i, fields)
		if score >= opts.Threshold {
			rs.Matches = append(rs.Matches, core.Match{
				Record: e.records[i],
				Score:  score,
				Field:  string(field),
			})
		}
	}

	sort.SliceStable(rs.Matches, func(a, b int) bool {
		return rs.Matches[a].Score > rs.Matches[b].Score
	})
	if opts.Limit > 0 && len(rs.Matches) > opts.Limit {
		rs.Matches = rs.Matches[:opts.Limit]
	}

	e.logger.Debugf("fuzzy %q threshold=%g: %d matches", query, opts.Threshold, len(rs.Matches))
	return rs, nil
}

func (e *Engine) scoreRecord(q string, i int, fields []Field) (float64, Field) {
	var best float64
	var bestField Field
	for _, f := range fields {
		var s float64
		switch f {
		case FieldCode:
			s = e.scoreCode(q, e.index[i].code)
		case FieldName:
			s = Similarity(q, e.index[i].name)
		}
		if s > best || bestField == "" {
			best, bestField = s, f
		}
		if best >= perfectScore {
			break
		}
	}
	return best, bestField
}

func (e *Engine) scoreCode(q, code string) float64 {
	if code == "" {
		return 0
	}
	if q == code {
		return perfectScore
	}
	s := Similarity(q, code)
	switch {
	case strings.HasPrefix(code, q):
		s = max(s, e.boost.Prefix)
	case strings.Contains(code, q):
		s = max(s, e.boost.Substring)
	}
	return min(s, perfectScore)
}

// Browse returns every record accepted by keep, unscored and in dataset
// order. A nil keep returns the whole dataset.
func (e *Engine) Browse(keep func(*core.Record) bool) core.ResultSet {
	if keep == nil {
		return core.Unscored(e.records)
	}
	var out []core.Record
	for i := range e.records {
		if keep(&e.records[i]) {
			out = append(out, e.records[i])
		}
	}
	return core.Unscored(out)
}

// Exact returns the first record whose code equals code, ignoring case and
// diacritics, as a perfect match.
func (e *Engine) Exact(code string) (core.Match, bool) {
	q := Normalize(code)
	if q == "" {
		return core.Match{}, false
	}
	for i := range e.index {
		if e.index[i].code == q {
			return core.Match{Record: e.records[i], Score: perfectScore, Field: "exact"}, true
		}
	}
	return core.Match{}, false
}

// ParseFields converts field names as used in query strings. "both" and the
// empty string select DefaultFields.
func ParseFields(raw string) ([]Field, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "both":
		return DefaultFields, nil
	case "code", string(FieldCode):
		return []Field{FieldCode}, nil
	case "name", string(FieldName):
		return []Field{FieldName}, nil
	}
	return nil, core.NewValidationError("fields", "unknown value %q", raw)
}

func (f Field) String() string { return string(f) }
