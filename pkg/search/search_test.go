package search

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/dataplans/pkg/core"
)

func rec(src core.Source, code, name string) core.Record {
	return core.Record{Source: src, PackageCode: code, PackageName: name}
}

func sampleRecords() []core.Record {
	return []core.Record{
		{Source: core.SourceMyVNPT, PackageCode: "D15", PackageName: "Gói D15", Description: "1.5GB mỗi ngày", Price: core.Some(15000.0)},
		{Source: core.SourceMyVNPT, PackageCode: "D150", PackageName: "Gói D150", Description: "1.5GB x 30 ngày", Price: core.Some(150000.0)},
		{Source: core.SourceVinaphone, PackageCode: "BIG30", PackageName: "Gói BIG30", FullDescription: "Data tốc độ cao", Price: core.Some(30000.0)},
		{Source: core.SourceDigishop, PackageCode: "GAME10", PackageName: "Gói Game 10", Description: "Data chơi game"},
		{Source: core.SourceVinaphone, PackageCode: "ST30", PackageName: "Siêu tốc 30"},
		{Source: core.SourceDigishop, PackageCode: "D10FT", PackageName: "Đặc biệt D10"},
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  d15 ":            "D15",
		"Gói  Siêu   tốc":   "GOI SIEU TOC",
		"Đặc biệt":          "DAC BIET",
		"đường":             "DUONG",
		"":                  "",
		"MIỄN PHÍ nội mạng": "MIEN PHI NOI MANG",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, Similarity("D15", "D15"))
	assert.Equal(t, 0.0, Similarity("", "D15"))
	assert.InDelta(t, 75.0, Similarity("D15", "D150"), 0.001)
	assert.InDelta(t, 90.0, Similarity("D15", "GOI D15"), 0.001, "partial window match")
	assert.InDelta(t, 95.0, Similarity("SIEU TOC", "TOC SIEU"), 0.001, "token sort")
	assert.Less(t, Similarity("D15", "BIG30"), 70.0)

	long := "GOI CUOC DATA TOC DO CAO D15 CHO THUE BAO"
	assert.InDelta(t, 60.0, Similarity("D15", long), 0.001, "long values use the reduced partial scale")
}

func TestSearchConcreteScenario(t *testing.T) {
	e := NewEngine([]core.Record{
		rec(core.SourceMyVNPT, "D15", "Gói D15"),
		rec(core.SourceMyVNPT, "D150", "Gói D150"),
		rec(core.SourceVinaphone, "BIG30", "Gói BIG30"),
	}, DefaultCodeBoost)

	rs, err := e.Search("D15", Options{Threshold: 70})
	require.NoError(t, err)
	require.Len(t, rs.Matches, 2)
	assert.True(t, rs.Scored)
	assert.Equal(t, "D15", rs.Matches[0].Record.PackageCode)
	assert.Equal(t, 100.0, rs.Matches[0].Score)
	assert.Equal(t, "D150", rs.Matches[1].Record.PackageCode)
	assert.Less(t, rs.Matches[1].Score, 100.0)
	assert.GreaterOrEqual(t, rs.Matches[1].Score, 70.0)
}

func TestSearchOrderedAndMonotonic(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)
	queries := []string{"D15", "big", "game", "st30", "dac biet", "D1"}
	thresholds := []float64{0, 30, 50, 60, 70, 85, 100}

	for _, q := range queries {
		prev := -1
		for i := len(thresholds) - 1; i >= 0; i-- {
			rs, err := e.Search(q, Options{Threshold: thresholds[i]})
			require.NoError(t, err)
			for j := 1; j < len(rs.Matches); j++ {
				assert.GreaterOrEqual(t, rs.Matches[j-1].Score, rs.Matches[j].Score, q)
			}
			for _, m := range rs.Matches {
				assert.GreaterOrEqual(t, m.Score, thresholds[i])
			}
			assert.GreaterOrEqual(t, len(rs.Matches), prev, "lowering the threshold never removes results for %q", q)
			prev = len(rs.Matches)
		}
	}
}

func TestSearchExactCodeAlwaysFound(t *testing.T) {
	records := sampleRecords()
	e := NewEngine(records, DefaultCodeBoost)
	for _, r := range records {
		rs, err := e.Search(r.PackageCode, Options{Threshold: 100, Fields: []Field{FieldCode}})
		require.NoError(t, err)
		require.NotEmpty(t, rs.Matches, r.PackageCode)
		assert.Equal(t, 100.0, rs.Matches[0].Score)
		assert.Equal(t, string(FieldCode), rs.Matches[0].Field)
	}
}

func TestSearchBlankQuery(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)
	rs, err := e.Search("   ", Options{Threshold: 60})
	require.NoError(t, err)
	assert.True(t, rs.Empty())
}

func TestSearchInvalidOptions(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)
	for _, th := range []float64{-1, 100.5, 250} {
		_, err := e.Search("D15", Options{Threshold: th})
		var ve *core.ValidationError
		require.True(t, errors.As(err, &ve), "threshold %g", th)
		assert.Equal(t, "threshold", ve.Field)
	}

	_, err := e.Search("D15", Options{Fields: []Field{"price"}})
	var ve *core.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestSearchCodeBoost(t *testing.T) {
	e := NewEngine([]core.Record{
		rec(core.SourceMyVNPT, "XD15Y", ""),
		rec(core.SourceMyVNPT, "D15ABCDEFGHIJ", ""),
	}, CodeBoost{Prefix: 95, Substring: 90})

	rs, err := e.Search("D15", Options{Threshold: 0, Fields: []Field{FieldCode}})
	require.NoError(t, err)
	require.Len(t, rs.Matches, 2)
	assert.Equal(t, "D15ABCDEFGHIJ", rs.Matches[0].Record.PackageCode)
	assert.Equal(t, 95.0, rs.Matches[0].Score)
	assert.Equal(t, 90.0, rs.Matches[1].Score)

	plain := NewEngine(e.records, CodeBoost{})
	rs, err = plain.Search("D15", Options{Threshold: 0, Fields: []Field{FieldCode}})
	require.NoError(t, err)
	assert.Less(t, rs.Matches[0].Score, 95.0)
}

func TestSearchStableTies(t *testing.T) {
	e := NewEngine([]core.Record{
		rec(core.SourceMyVNPT, "A1", "first"),
		rec(core.SourceVinaphone, "A1", "second"),
		rec(core.SourceDigishop, "A1", "third"),
	}, DefaultCodeBoost)
	rs, err := e.Search("a1", Options{Threshold: 60})
	require.NoError(t, err)
	require.Len(t, rs.Matches, 3)
	assert.Equal(t, "first", rs.Matches[0].Record.PackageName)
	assert.Equal(t, "second", rs.Matches[1].Record.PackageName)
	assert.Equal(t, "third", rs.Matches[2].Record.PackageName)
}

func TestSearchLimitAndFilter(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)

	rs, err := e.Search("D15", Options{Threshold: 0, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rs.Matches, 2)

	onlyVina := func(r *core.Record) bool { return r.Source == core.SourceVinaphone }
	rs, err = e.Search("D15", Options{Threshold: 0, Filter: onlyVina})
	require.NoError(t, err)
	for _, m := range rs.Matches {
		assert.Equal(t, core.SourceVinaphone, m.Record.Source)
	}
}

func TestSearchByNameFoldsDiacritics(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)
	rs, err := e.Search("sieu toc 30", Options{Threshold: 90, Fields: []Field{FieldName}})
	require.NoError(t, err)
	require.NotEmpty(t, rs.Matches)
	assert.Equal(t, "ST30", rs.Matches[0].Record.PackageCode)
	assert.Equal(t, string(FieldName), rs.Matches[0].Field)
}

func TestBrowse(t *testing.T) {
	records := sampleRecords()
	e := NewEngine(records, DefaultCodeBoost)

	all := e.Browse(nil)
	assert.False(t, all.Scored)
	assert.Equal(t, core.KindBrowse, all.Kind)
	assert.Len(t, all.Matches, len(records))

	digishop := e.Browse(func(r *core.Record) bool { return r.Source == core.SourceDigishop })
	require.Len(t, digishop.Matches, 2)
	assert.Equal(t, "GAME10", digishop.Matches[0].Record.PackageCode)
	assert.Equal(t, "D10FT", digishop.Matches[1].Record.PackageCode)
}

func TestExact(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)
	m, ok := e.Exact(" big30 ")
	require.True(t, ok)
	assert.Equal(t, "BIG30", m.Record.PackageCode)
	assert.Equal(t, 100.0, m.Score)
	assert.Equal(t, "exact", m.Field)

	_, ok = e.Exact("NOPE")
	assert.False(t, ok)
	_, ok = e.Exact("")
	assert.False(t, ok)
}

func TestRegex(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)

	tests := []struct {
		name    string
		pattern string
		opts    RegexOptions
		codes   []string
		field   string
	}{
		{"anchored code", "^D1", RegexOptions{Scope: ScopeCode}, []string{"D15", "D150", "D10FT"}, core.ColPackageCode},
		{"case insensitive by default", "^game", RegexOptions{}, []string{"GAME10"}, core.ColPackageCode},
		{"case sensitive", "^game", RegexOptions{CaseSensitive: true}, nil, ""},
		{"name scope", "Siêu", RegexOptions{Scope: ScopeName}, []string{"ST30"}, core.ColPackageName},
		{"description scope", "chơi", RegexOptions{Scope: ScopeDescription}, []string{"GAME10"}, core.ColDescription},
		{"all scope reaches full description", "tốc độ", RegexOptions{Scope: ScopeAll}, []string{"BIG30"}, core.ColFullDescription},
		{"limit", "^D", RegexOptions{Limit: 1}, []string{"D15"}, core.ColPackageCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := e.Regex(tt.pattern, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, core.KindRegex, rs.Kind)
			var codes []string
			for _, m := range rs.Matches {
				codes = append(codes, m.Record.PackageCode)
				assert.Equal(t, 100.0, m.Score)
				assert.Equal(t, tt.field, m.Field)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestRegexErrors(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)

	_, err := e.Regex("([", RegexOptions{})
	var ve *core.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "pattern", ve.Field)

	_, err = e.Regex("D", RegexOptions{Scope: "price"})
	assert.True(t, errors.As(err, &ve))

	rs, err := e.Regex("  ", RegexOptions{})
	require.NoError(t, err)
	assert.True(t, rs.Empty())
}

func TestRegexFilterAppliedAfterMatch(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)
	rs, err := e.Regex("^D", RegexOptions{
		Filter: func(r *core.Record) bool { return r.Source == core.SourceDigishop },
	})
	require.NoError(t, err)
	require.Len(t, rs.Matches, 1)
	assert.Equal(t, "D10FT", rs.Matches[0].Record.PackageCode)
}

func TestSuggest(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)

	assert.Equal(t, []string{"D15", "D150", "D10FT"}, e.Suggest("d1", 5))
	assert.Equal(t, []string{"D15"}, e.Suggest("D", 1))
	assert.Nil(t, e.Suggest("", 5))

	got := e.Suggest("BIG3", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "BIG30", got[0])

	got = e.Suggest("GAME1O", 5)
	assert.Contains(t, got, "GAME10", "fuzzy fallback")
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Params
		hasError bool
	}{
		{
			name:     "defaults when no params",
			query:    "",
			expected: DefaultParams(),
		},
		{
			name:  "fuzzy with threshold and paging",
			query: "q=D15&threshold=70&page=2&size=100&limit=10",
			expected: Params{
				Query: "D15", Mode: ModeFuzzy, Threshold: 70, Fields: DefaultFields,
				Scope: ScopeBoth, Limit: 10, Page: 2, Size: 100,
			},
		},
		{
			name:  "regex with scope",
			query: "q=%5ED&mode=regex&scope=all&case=true&fields=code",
			expected: Params{
				Query: "^D", Mode: ModeRegex, Threshold: DefaultThreshold, Fields: []Field{FieldCode},
				Scope: ScopeAll, CaseSensitive: true, Page: 1, Size: DefaultPageSize,
			},
		},
		{
			name:  "invalid page falls back to defaults",
			query: "q=x&page=-3&size=abc",
			expected: Params{
				Query: "x", Mode: ModeFuzzy, Threshold: DefaultThreshold, Fields: DefaultFields,
				Scope: ScopeBoth, Page: 1, Size: DefaultPageSize,
			},
		},
		{name: "threshold out of range", query: "q=x&threshold=101", hasError: true},
		{name: "threshold not a number", query: "q=x&threshold=high", hasError: true},
		{name: "unknown mode", query: "q=x&mode=soundex", hasError: true},
		{name: "unknown scope", query: "q=x&scope=price", hasError: true},
		{name: "negative limit", query: "q=x&limit=-1", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			params, err := ParseParams(values)
			if tt.hasError {
				var ve *core.ValidationError
				assert.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestParseParamsFromBase(t *testing.T) {
	base := DefaultParams()
	base.Threshold = 75
	base.Size = 200

	p, err := ParseParamsFrom(base, url.Values{"q": {"D15"}})
	require.NoError(t, err)
	assert.Equal(t, 75.0, p.Threshold)
	assert.Equal(t, 200, p.Size)

	p, err = ParseParamsFrom(base, url.Values{"q": {"D15"}, "threshold": {"0"}, "size": {"50"}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Threshold)
	assert.Equal(t, 50, p.Size)
}

func TestRunDispatchesByMode(t *testing.T) {
	e := NewEngine(sampleRecords(), DefaultCodeBoost)

	p := DefaultParams()
	p.Query = "D15"
	rs, err := e.Run(p, nil)
	require.NoError(t, err)
	assert.Equal(t, core.KindFuzzy, rs.Kind)

	p.Mode = ModeRegex
	p.Query = "0$"
	rs, err = e.Run(p, nil)
	require.NoError(t, err)
	assert.Equal(t, core.KindRegex, rs.Kind)
	assert.Len(t, rs.Matches, 5)

	p.Threshold = 120
	_, err = e.Run(p, nil)
	assert.Error(t, err)
}

func ExampleParseParams() {
	values, _ := url.ParseQuery("q=D15&threshold=70&page=2")
	params, err := ParseParams(values)
	if err != nil {
		panic(err)
	}

	fmt.Println("Query:", params.Query)
	fmt.Println("Mode:", params.Mode)
	fmt.Println("Threshold:", params.Threshold)
	fmt.Println("Page:", params.Page)

	// Output:
	// Query: D15
	// Mode: fuzzy
	// Threshold: 70
	// Page: 2
}

func ExampleEngine_Search() {
	e := NewEngine([]core.Record{
		{PackageCode: "D15"},
		{PackageCode: "D150"},
		{PackageCode: "BIG30"},
	}, DefaultCodeBoost)

	rs, _ := e.Search("D15", Options{Threshold: 70})
	for _, m := range rs.Matches {
		fmt.Printf("%s %.0f\n", m.Record.PackageCode, m.Score)
	}

	// Output:
	// D15 100
	// D150 95
}
