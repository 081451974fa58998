package types

import (
	"html/template"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/filter"
	"github.com/rubiojr/dataplans/pkg/paginate"
	"github.com/rubiojr/dataplans/pkg/report"
	"github.com/rubiojr/dataplans/pkg/search"
)

// View modes of the results area.
const (
	ViewTable = "table"
	ViewCards = "cards"
)

// State is the per-browser UI state kept in the session store. It is
// replaced as a whole on every update.
type State struct {
	Results  core.ResultSet
	Params   search.Params
	Criteria filter.Criteria
	Page     int
	Size     int
	View     string
	ShowFull bool

	// Flash is shown once on the next page render.
	Flash     string
	FlashKind string
}

// PageData represents data passed to templates
type PageData struct {
	Title    string
	Version  string
	DataFile string
	Stats    core.Stats

	// Form values
	Params   search.Params
	Sources  []SourceOption
	PriceMin string
	PriceMax string
	DataMin  string
	DataMax  string

	// Results
	Results   core.ResultSet
	HasResult bool
	Page      paginate.Page[core.Match]
	Window    []int
	Cards     []template.HTML
	View      string
	ShowFull  bool

	PageSizes []int
	Formats   []report.Format
	Samples   []string

	Error   string
	Success string
}

// SourceOption is one checkbox of the source filter.
type SourceOption struct {
	Value    core.Source
	Label    string
	Count    int
	Selected bool
}

// DetailData is passed to the package detail template.
type DetailData struct {
	Title   string
	Version string
	Code    string
	Card    template.HTML
	Found   bool
}
