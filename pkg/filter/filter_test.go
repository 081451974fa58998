package filter

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/dataplans/pkg/core"
)

func records() []core.Record {
	return []core.Record{
		{Source: core.SourceMyVNPT, PackageCode: "A", Price: core.Some(10000.0), DataGB: core.Some(1.0)},
		{Source: core.SourceVinaphone, PackageCode: "B", Price: core.Some(50000.0), DataGB: core.Some(5.0)},
		{Source: core.SourceDigishop, PackageCode: "C", Price: core.Some(100000.0)},
		{Source: core.SourceMyVNPT, PackageCode: "D", DataGB: core.Some(2.0)},
		{Source: core.SourceVinaphone, PackageCode: "E", Price: core.Some(0.0), DataGB: core.Some(0.0)},
	}
}

func codes(rs []core.Record) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.PackageCode)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"no criteria is identity", Criteria{}, []string{"A", "B", "C", "D", "E"}},
		{"single source", Criteria{Sources: []core.Source{core.SourceMyVNPT}}, []string{"A", "D"}},
		{"source set", Criteria{Sources: []core.Source{core.SourceDigishop, core.SourceVinaphone}}, []string{"B", "C", "E"}},
		{"price inclusive bounds", Criteria{PriceMin: Float(10000), PriceMax: Float(50000)}, []string{"A", "B"}},
		{"price bound excludes absent", Criteria{PriceMax: Float(1e9)}, []string{"A", "B", "C", "E"}},
		{"zero is present", Criteria{PriceMax: Float(0)}, []string{"E"}},
		{"data min", Criteria{DataMin: Float(2)}, []string{"B", "D"}},
		{"combined", Criteria{Sources: []core.Source{core.SourceMyVNPT}, DataMax: Float(1.5)}, []string{"A"}},
		{"nothing matches", Criteria{PriceMin: Float(1e9)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(Apply(records(), tt.c)))
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	c := Criteria{Sources: []core.Source{core.SourceVinaphone, core.SourceMyVNPT}, DataMin: Float(1)}
	once := Apply(records(), c)
	twice := Apply(once, c)
	assert.Equal(t, once, twice)
}

func TestApplyPreservesOrderForLargeSource(t *testing.T) {
	var all []core.Record
	myvnpt := 0
	for i := 0; i < 300; i++ {
		src := core.SourceVinaphone
		switch {
		case i%5 == 4:
			src = core.SourceDigishop
		case myvnpt < 236:
			src = core.SourceMyVNPT
			myvnpt++
		}
		all = append(all, core.Record{Source: src, PackageCode: fmt.Sprintf("P%03d", i)})
	}

	var expected []string
	for _, r := range all {
		if r.Source == core.SourceMyVNPT {
			expected = append(expected, r.PackageCode)
		}
	}
	require.Len(t, expected, 236)

	got := Apply(all, Criteria{Sources: []core.Source{core.SourceMyVNPT}})
	assert.Len(t, got, 236)
	assert.Equal(t, expected, codes(got))
}

func TestApplyResultsKeepsScores(t *testing.T) {
	rs := core.ResultSet{Scored: true, Kind: core.KindFuzzy, Matches: []core.Match{
		{Record: records()[1], Score: 99},
		{Record: records()[0], Score: 80},
		{Record: records()[2], Score: 70},
	}}
	out := ApplyResults(rs, Criteria{PriceMax: Float(60000)})
	require.Len(t, out.Matches, 2)
	assert.True(t, out.Scored)
	assert.Equal(t, 99.0, out.Matches[0].Score)
	assert.Equal(t, "A", out.Matches[1].Record.PackageCode)
	assert.Len(t, rs.Matches, 3, "input untouched")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		c     Criteria
		field string
	}{
		{"inverted price", Criteria{PriceMin: Float(100), PriceMax: Float(10)}, "price"},
		{"inverted data", Criteria{DataMin: Float(5), DataMax: Float(1)}, "data"},
		{"negative price", Criteria{PriceMin: Float(-1)}, "price_min"},
		{"unknown source", Criteria{Sources: []core.Source{"viettel"}}, "sources[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			var ve *core.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	assert.NoError(t, Criteria{}.Validate())
	assert.NoError(t, Criteria{PriceMin: Float(5), PriceMax: Float(5)}.Validate())
}

func TestParse(t *testing.T) {
	values, err := url.ParseQuery("source=myvnpt,Vinaphone&source=digishop&price_min=1000&price_max=&data_max=3.5")
	require.NoError(t, err)
	c, err := Parse(values)
	require.NoError(t, err)
	assert.Equal(t, []core.Source{core.SourceMyVNPT, core.SourceVinaphone, core.SourceDigishop}, c.Sources)
	require.NotNil(t, c.PriceMin)
	assert.Equal(t, 1000.0, *c.PriceMin)
	assert.Nil(t, c.PriceMax)
	assert.Equal(t, 3.5, *c.DataMax)

	_, err = Parse(url.Values{"price_min": {"cheap"}})
	var ve *core.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = Parse(url.Values{"data_min": {"9"}, "data_max": {"1"}})
	assert.True(t, errors.As(err, &ve))

	c, err = Parse(url.Values{})
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}
