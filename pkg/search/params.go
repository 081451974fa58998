package search

import (
	"strconv"
	"strings"

	"github.com/rubiojr/dataplans/pkg/core"
)

// Mode selects fuzzy or regex matching.
type Mode string

const (
	ModeFuzzy Mode = "fuzzy"
	ModeRegex Mode = "regex"
)

// DefaultPageSize is the page size used when a request does not set one.
const DefaultPageSize = 50

// Params is the full set of search inputs accepted from HTTP query strings
// and form posts. Both the web UI and the JSON API parse requests into it.
type Params struct {
	// Query is the text or pattern to look for. Empty means no search.
	Query string `json:"q"`

	// Mode is "fuzzy" (default) or "regex".
	Mode Mode `json:"mode" validate:"oneof=fuzzy regex"`

	// Threshold is the minimum fuzzy score, 0-100. Defaults to DefaultThreshold.
	Threshold float64 `json:"threshold" validate:"gte=0,lte=100"`

	// Fields scored by fuzzy search. Defaults to code and name.
	Fields []Field `json:"fields"`

	// Scope of a regex search. Defaults to code and name.
	Scope Scope `json:"scope" validate:"oneof=code name both description all"`

	// CaseSensitive makes regex matching case sensitive.
	CaseSensitive bool `json:"case"`

	// Limit caps the number of results. 0 means unlimited for fuzzy and
	// DefaultRegexLimit for regex.
	Limit int `json:"limit" validate:"gte=0"`

	// Page is the 1-based page to render.
	Page int `json:"page" validate:"gte=1"`

	// Size is the number of results per page.
	Size int `json:"size" validate:"gte=0"`
}

// DefaultParams returns the parameters used for an empty request.
func DefaultParams() Params {
	return Params{
		Mode:      ModeFuzzy,
		Threshold: DefaultThreshold,
		Fields:    DefaultFields,
		Scope:     ScopeBoth,
		Page:      1,
		Size:      DefaultPageSize,
	}
}

// ParseParams parses HTTP query parameters into Params, starting from
// DefaultParams.
//
// Supported parameters:
//   - q: query text or regex pattern
//   - mode: fuzzy or regex
//   - threshold: minimum score, 0-100
//   - fields: code, name or both
//   - scope: code, name, both, description or all
//   - case: "true"/"1" for case sensitive regex
//   - limit: maximum results
//   - page: page number (positive integer, defaults to 1)
//   - size: page size (positive integer, defaults to 50)
//
// Malformed page and size values fall back to defaults the same way the
// pagination layer clamps out-of-range pages. Malformed threshold, limit,
// mode, fields and scope values are reported as *core.ValidationError.
func ParseParams(values map[string][]string) (Params, error) {
	return ParseParamsFrom(DefaultParams(), values)
}

// ParseParamsFrom is ParseParams with base supplying the values a request
// leaves unset.
func ParseParamsFrom(base Params, values map[string][]string) (Params, error) {
	p := base
	get := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	p.Query = get("q")

	if m := get("mode"); m != "" {
		p.Mode = Mode(strings.ToLower(m))
	}

	if t := get("threshold"); t != "" {
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return p, &core.ValidationError{Field: "threshold", Message: "not a number: " + t, Cause: err}
		}
		p.Threshold = f
	}

	if f := get("fields"); f != "" {
		fields, err := ParseFields(f)
		if err != nil {
			return p, err
		}
		p.Fields = fields
	}

	if s := get("scope"); s != "" {
		scope, err := ParseScope(s)
		if err != nil {
			return p, err
		}
		p.Scope = scope
	}

	if c := get("case"); c != "" {
		p.CaseSensitive, _ = strconv.ParseBool(c)
	}

	if l := get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			return p, &core.ValidationError{Field: "limit", Message: "not an integer: " + l, Cause: err}
		}
		p.Limit = n
	}

	if n, err := strconv.Atoi(get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(get("size")); err == nil && n > 0 {
		p.Size = n
	}

	return p, p.Validate()
}

// Validate checks ranges and enumerations.
func (p Params) Validate() error {
	return core.ValidateStruct(p)
}

// Run executes p against the engine. Fuzzy searches apply keep before
// scoring, regex searches after matching.
func (e *Engine) Run(p Params, keep func(*core.Record) bool) (core.ResultSet, error) {
	if err := p.Validate(); err != nil {
		return core.ResultSet{}, err
	}
	if p.Mode == ModeRegex {
		return e.Regex(p.Query, RegexOptions{
			Scope:         p.Scope,
			CaseSensitive: p.CaseSensitive,
			Limit:         p.Limit,
			Filter:        keep,
		})
	}
	return e.Search(p.Query, Options{
		Threshold: p.Threshold,
		Fields:    p.Fields,
		Limit:     p.Limit,
		Filter:    keep,
	})
}
