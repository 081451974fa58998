package core

// ResultKind records which operation produced a ResultSet.
type ResultKind string

const (
	KindFuzzy  ResultKind = "fuzzy"
	KindRegex  ResultKind = "regex"
	KindExact  ResultKind = "exact"
	KindBrowse ResultKind = "browse"
)

// Match pairs a record with its similarity score (0-100) and the field
// that produced it. Score and Field are zero for unscored results.
type Match struct {
	Record Record  `json:"record"`
	Score  float64 `json:"score,omitempty"`
	Field  string  `json:"field,omitempty"`
}

// ResultSet is the ordered output of a search or browse action.
type ResultSet struct {
	Matches []Match    `json:"matches"`
	Scored  bool       `json:"scored"`
	Kind    ResultKind `json:"kind"`
	Query   string     `json:"query,omitempty"`
}

// Len returns the number of matches.
func (rs ResultSet) Len() int { return len(rs.Matches) }

// Empty reports whether the set holds no matches.
func (rs ResultSet) Empty() bool { return len(rs.Matches) == 0 }

// Records returns the matched records in order.
func (rs ResultSet) Records() []Record {
	out := make([]Record, len(rs.Matches))
	for i, m := range rs.Matches {
		out[i] = m.Record
	}
	return out
}

// Unscored wraps records in a browse ResultSet.
func Unscored(records []Record) ResultSet {
	matches := make([]Match, len(records))
	for i, r := range records {
		matches[i] = Match{Record: r}
	}
	return ResultSet{Matches: matches, Kind: KindBrowse}
}
