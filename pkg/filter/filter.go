// Package filter narrows record sets by source, price range and data volume.
package filter

import (
	"strconv"
	"strings"

	"github.com/rubiojr/dataplans/pkg/core"
)

// Criteria are optional, AND-combined record predicates. Bounds are
// inclusive. A nil bound is not applied. When a price bound is set, records
// without a price are excluded; the same holds for data bounds.
type Criteria struct {
	Sources  []core.Source `json:"sources,omitempty" validate:"dive,oneof=myvnpt vinaphone digishop"`
	PriceMin *float64      `json:"price_min,omitempty" validate:"omitempty,gte=0"`
	PriceMax *float64      `json:"price_max,omitempty" validate:"omitempty,gte=0"`
	DataMin  *float64      `json:"data_min,omitempty" validate:"omitempty,gte=0"`
	DataMax  *float64      `json:"data_max,omitempty" validate:"omitempty,gte=0"`
}

// Float returns a pointer to v, for building Criteria literals.
func Float(v float64) *float64 { return &v }

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return len(c.Sources) == 0 && c.PriceMin == nil && c.PriceMax == nil &&
		c.DataMin == nil && c.DataMax == nil
}

// Validate rejects unknown sources, negative bounds and inverted ranges.
func (c Criteria) Validate() error {
	if err := core.ValidateStruct(c); err != nil {
		return err
	}
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		return core.NewValidationError("price", "min %g is greater than max %g", *c.PriceMin, *c.PriceMax)
	}
	if c.DataMin != nil && c.DataMax != nil && *c.DataMin > *c.DataMax {
		return core.NewValidationError("data", "min %g is greater than max %g", *c.DataMin, *c.DataMax)
	}
	return nil
}

// Match reports whether r satisfies every set criterion.
func (c Criteria) Match(r *core.Record) bool {
	if len(c.Sources) > 0 && !containsSource(c.Sources, r.Source) {
		return false
	}
	if !inRange(r.Price, c.PriceMin, c.PriceMax) {
		return false
	}
	return inRange(r.DataGB, c.DataMin, c.DataMax)
}

func containsSource(sources []core.Source, s core.Source) bool {
	for _, src := range sources {
		if src == s {
			return true
		}
	}
	return false
}

func inRange(v core.Optional[float64], lo, hi *float64) bool {
	if lo == nil && hi == nil {
		return true
	}
	val, ok := v.Get()
	if !ok {
		return false
	}
	if lo != nil && val < *lo {
		return false
	}
	if hi != nil && val > *hi {
		return false
	}
	return true
}

// Apply returns the records matching c in their original order. With no
// criteria the input slice is returned unchanged.
func Apply(records []core.Record, c Criteria) []core.Record {
	if c.IsZero() {
		return records
	}
	out := make([]core.Record, 0, len(records))
	for i := range records {
		if c.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// ApplyResults filters a result set, keeping scores and order.
func ApplyResults(rs core.ResultSet, c Criteria) core.ResultSet {
	if c.IsZero() {
		return rs
	}
	out := rs
	out.Matches = make([]core.Match, 0, len(rs.Matches))
	for i := range rs.Matches {
		if c.Match(&rs.Matches[i].Record) {
			out.Matches = append(out.Matches, rs.Matches[i])
		}
	}
	return out
}

// Parse reads criteria from query or form values:
//   - source: repeated or comma separated
//   - price_min, price_max, data_min, data_max: numbers
//
// Empty values are ignored. The result is validated.
func Parse(values map[string][]string) (Criteria, error) {
	var c Criteria
	for _, v := range values["source"] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Sources = append(c.Sources, core.ParseSource(s))
			}
		}
	}

	bounds := []struct {
		key string
		dst **float64
	}{
		{"price_min", &c.PriceMin},
		{"price_max", &c.PriceMax},
		{"data_min", &c.DataMin},
		{"data_max", &c.DataMax},
	}
	for _, b := range bounds {
		raw := ""
		if v := values[b.key]; len(v) > 0 {
			raw = strings.TrimSpace(v[0])
		}
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c, &core.ValidationError{Field: b.key, Message: "not a number: " + raw, Cause: err}
		}
		*b.dst = &f
	}

	return c, c.Validate()
}
