package components

import (
	"strconv"
	"strings"

	"github.com/rubiojr/dataplans/cmd/web/components/types"
	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/format"
	"github.com/rubiojr/dataplans/pkg/paginate"
	"github.com/rubiojr/dataplans/pkg/search"
)

// SampleQueries are offered as one-click searches on the empty page.
var SampleQueries = []string{"D15", "BIG", "ST30", "D10FT", "GAME10"}

// NewState returns the state of a browser with no search yet.
func NewState(defaults search.Params) types.State {
	return types.State{
		Params: defaults,
		Page:   1,
		Size:   defaults.Size,
		View:   types.ViewTable,
	}
}

// SourceOptions builds the source checkboxes, known sources first, with
// their record counts.
func SourceOptions(stats core.Stats, selected []core.Source) []types.SourceOption {
	var opts []types.SourceOption
	for _, src := range core.KnownSources {
		opts = append(opts, types.SourceOption{
			Value:    src,
			Label:    format.Source(src),
			Count:    stats.SourceCount(src),
			Selected: hasSource(selected, src),
		})
	}
	return opts
}

func hasSource(list []core.Source, s core.Source) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// FormatBound renders an optional filter bound for a form input.
func FormatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ApplyNavigation updates page, size, view and full-description toggle from
// query values. Unknown or malformed values leave the state unchanged.
func ApplyNavigation(st types.State, values map[string][]string) types.State {
	get := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	if n, err := strconv.Atoi(get("size")); err == nil && paginate.ValidSize(n) {
		if n != st.Size {
			st.Page = 1
		}
		st.Size = n
	}
	if n, err := strconv.Atoi(get("page")); err == nil {
		st.Page = n
	}
	switch get("view") {
	case types.ViewTable, types.ViewCards:
		st.View = get("view")
	}
	if f := get("full"); f != "" {
		st.ShowFull, _ = strconv.ParseBool(f)
	}
	return st
}

// ResultMessage summarizes a finished search for the flash area.
func ResultMessage(rs core.ResultSet) string {
	n := format.Number(float64(rs.Len()))
	switch rs.Kind {
	case core.KindBrowse:
		return "Hiển thị " + n + " gói cước"
	case core.KindRegex:
		return "Tìm thấy " + n + " gói cước khớp biểu thức \"" + rs.Query + "\""
	default:
		return "Tìm thấy " + n + " gói cước cho \"" + rs.Query + "\""
	}
}
