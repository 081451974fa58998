package search

import (
	"regexp"
	"strings"

	"github.com/rubiojr/dataplans/pkg/core"
)

// Scope selects which fields a regex search looks at.
type Scope string

const (
	ScopeCode        Scope = "code"
	ScopeName        Scope = "name"
	ScopeBoth        Scope = "both"
	ScopeDescription Scope = "description"
	ScopeAll         Scope = "all"
)

// DefaultRegexLimit caps regex results when no limit is given.
const DefaultRegexLimit = 100

// RegexOptions controls a regex search.
type RegexOptions struct {
	Scope         Scope
	CaseSensitive bool
	// Limit caps the number of matches. Zero means DefaultRegexLimit,
	// negative means unlimited.
	Limit int
	// Filter, when set, drops matching records that fail it.
	Filter func(*core.Record) bool
}

// ParseScope validates a scope name. Empty selects ScopeBoth.
func ParseScope(raw string) (Scope, error) {
	s := Scope(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case "":
		return ScopeBoth, nil
	case ScopeCode, ScopeName, ScopeBoth, ScopeDescription, ScopeAll:
		return s, nil
	}
	return "", core.NewValidationError("scope", "unknown value %q", raw)
}

type scopedField struct {
	name  string
	value func(*core.Record) string
}

var (
	codeField     = scopedField{core.ColPackageCode, func(r *core.Record) string { return r.PackageCode }}
	nameField     = scopedField{core.ColPackageName, func(r *core.Record) string { return r.PackageName }}
	descField     = scopedField{core.ColDescription, func(r *core.Record) string { return r.Description }}
	fullDescField = scopedField{core.ColFullDescription, func(r *core.Record) string { return r.FullDescription }}
)

func (s Scope) fields() []scopedField {
	switch s {
	case ScopeCode:
		return []scopedField{codeField}
	case ScopeName:
		return []scopedField{nameField}
	case ScopeDescription:
		return []scopedField{descField}
	case ScopeAll:
		return []scopedField{codeField, nameField, descField, fullDescField}
	default:
		return []scopedField{codeField, nameField}
	}
}

// Regex returns records where pattern matches a field in scope. Each match
// scores 100 and records the first field that matched. Results keep dataset
// order. An invalid pattern is a validation error; a blank one yields an
// empty result set.
func (e *Engine) Regex(pattern string, opts RegexOptions) (core.ResultSet, error) {
	rs := core.ResultSet{Scored: true, Kind: core.KindRegex, Query: pattern}
	if strings.TrimSpace(pattern) == "" {
		return rs, nil
	}
	scope, err := ParseScope(string(opts.Scope))
	if err != nil {
		return rs, err
	}

	expr := pattern
	if !opts.CaseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return rs, &core.ValidationError{Field: "pattern", Message: err.Error(), Cause: err}
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultRegexLimit
	}

	fields := scope.fields()
	for i := range e.records {
		r := &e.records[i]
		for _, f := range fields {
			v := f.value(r)
			if v == "" || !re.MatchString(v) {
				continue
			}
			if opts.Filter == nil || opts.Filter(r) {
				rs.Matches = append(rs.Matches, core.Match{Record: *r, Score: perfectScore, Field: f.name})
			}
			break
		}
		if limit > 0 && len(rs.Matches) >= limit {
			break
		}
	}

	e.logger.Debugf("regex %q scope=%s: %d matches", pattern, scope, len(rs.Matches))
	return rs, nil
}
