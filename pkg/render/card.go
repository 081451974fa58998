package render

import (
	"bytes"
	"html/template"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/log"
)

// cardTemplate renders a package as an expandable card. Attributes show "-"
// when absent; the details section lists the syntaxes and policies.
var cardTemplate = `
<article class="card {{sourceClass .Match.Record.Source}}" style="--accent: {{.Accent}}">
  <header class="card-header">
    <span class="card-icon">{{.Icon}}</span>
    <a class="card-code" href="{{packageURL .Match.Record.PackageCode}}">{{.Match.Record.PackageCode}}</a>
    <span class="card-source">{{source .Match.Record.Source}}</span>
    {{if gt .Match.Score 0.0}}<span class="card-score" title="{{.Match.Field}}">{{score .Match.Score}}</span>{{end}}
  </header>
  <h3 class="card-name">{{text .Match.Record.PackageName}}</h3>
  <dl class="card-facts">
    <dt>Giá</dt><dd>{{currency .Match.Record.Price}}</dd>
    <dt>Data</dt><dd>{{data .Match.Record.DataGB}}</dd>
    <dt>Chu kỳ</dt><dd>{{cycle .Match.Record.CycleDays}}</dd>
    <dt>Thoại</dt><dd>{{voice .Match.Record.VoiceMinutes}}</dd>
    <dt>SMS</dt><dd>{{int .Match.Record.SMSCount}}</dd>
    <dt>Loại</dt><dd>{{text .Match.Record.PackageType}}</dd>
  </dl>
  {{with .Match.Record.Description}}<p class="card-desc">{{.}}</p>{{end}}
  <details class="card-details"{{if .Open}} open{{end}}>
    <summary>Chi tiết</summary>
    {{with .Match.Record.FullDescription}}<p class="card-full">{{.}}</p>{{end}}
    <dl>
      <dt>Cú pháp đăng ký</dt><dd><code>{{text .Match.Record.RegistrationSyntax}}</code></dd>
      <dt>Cú pháp hủy</dt><dd><code>{{text .Match.Record.CancellationSyntax}}</code></dd>
      <dt>Kiểm tra</dt><dd><code>{{text .Match.Record.CheckSyntax}}</code></dd>
      <dt>Đối tượng</dt><dd>{{text .Match.Record.Eligibility}}</dd>
      <dt>Gia hạn</dt><dd>{{text .Match.Record.RenewalPolicy}}</dd>
      <dt>Hotline</dt><dd>{{text .Match.Record.SupportHotline}}</dd>
    </dl>
    {{if .Links}}
    <div class="card-links">
      {{range .Links}}<a href="{{.}}" target="_blank" rel="noopener noreferrer">{{truncate . 60}}</a>{{end}}
    </div>
    {{end}}
  </details>
</article>
`

var parsedCard = template.Must(template.New("card").Funcs(GetTemplateFuncs()).Parse(cardTemplate))

type cardData struct {
	Match  core.Match
	Accent template.CSS
	Icon   string
	Links  []string
	Open   bool
}

// cardLinks returns the original link followed by any URLs mentioned in the
// full description, without duplicates.
func cardLinks(r *core.Record) []string {
	var links []string
	seen := map[string]bool{}
	add := func(l string) {
		if l != "" && !seen[l] {
			seen[l] = true
			links = append(links, l)
		}
	}
	add(r.OriginalLink)
	for _, l := range ExtractLinks(r.FullDescription) {
		add(l)
	}
	return links
}

// CardRenderer backed by the shared card template.
type templateRenderer struct {
	name   string
	source core.Source
	accent template.CSS
	icon   string
	open   bool
}

// NewDefaultRenderer returns the card used for records no other renderer
// accepts.
func NewDefaultRenderer() CardRenderer {
	return &templateRenderer{name: "default", accent: "#6b7280", icon: "📦"}
}

// NewSourceRenderer returns a card with the colours of src.
func NewSourceRenderer(src core.Source) CardRenderer {
	tr := &templateRenderer{name: string(src), source: src, accent: "#6b7280", icon: "📦"}
	switch src {
	case core.SourceMyVNPT:
		tr.accent, tr.icon = "#0072bc", "📱"
	case core.SourceVinaphone:
		tr.accent, tr.icon = "#00a0e3", "📶"
	case core.SourceDigishop:
		tr.accent, tr.icon = "#f47920", "🛒"
	}
	return tr
}

// NewDetailRenderer returns a card with the details section expanded.
func NewDetailRenderer() CardRenderer {
	return &templateRenderer{name: "detail", accent: "#366092", icon: "📦", open: true}
}

func (t *templateRenderer) Name() string { return t.name }

func (t *templateRenderer) CanRender(r *core.Record) bool {
	return t.source == "" || r.Source == t.source
}

func (t *templateRenderer) Render(m core.Match) template.HTML {
	var buf bytes.Buffer
	data := cardData{
		Match:  m,
		Accent: t.accent,
		Icon:   t.icon,
		Links:  cardLinks(&m.Record),
		Open:   t.open,
	}
	if err := parsedCard.Execute(&buf, data); err != nil {
		log.ForService("render").Errorf("rendering card %s: %v", m.Record.PackageCode, err)
		return template.HTML("<!-- card unavailable -->")
	}
	return template.HTML(buf.String())
}
