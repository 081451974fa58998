package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/rubiojr/dataplans/pkg/core"
)

const (
	// SheetPackages holds one row per record.
	SheetPackages = "Packages"
	// SheetInfo holds generation metadata.
	SheetInfo = "Info"

	scoreColumn = "_score"

	minColWidth = 10
	maxColWidth = 50
)

// fixedWidths are columns whose content is too long or too uniform to size.
var fixedWidths = map[string]float64{
	core.ColDescription:        50,
	core.ColFullDescription:    50,
	core.ColEligibility:        40,
	core.ColRenewalPolicy:      40,
	core.ColRegistrationSyntax: 30,
	core.ColCancellationSyntax: 30,
	core.ColCheckSyntax:        30,
	core.ColOriginalLink:       35,
	core.ColPackageCode:        15,
	core.ColPackageName:        15,
	core.ColSource:             12,
}

type sheetStyles struct {
	header, text, wrap, code, price, decimal, integer, score int
}

func (g *Generator) xlsx(rs core.ResultSet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	fail := func(msg string, err error) error {
		return &core.GenerationError{Format: string(FormatXLSX), Message: msg, Cause: err}
	}

	if err := f.SetSheetName("Sheet1", SheetPackages); err != nil {
		return nil, fail("rename sheet", err)
	}
	styles, err := newStyles(f)
	if err != nil {
		return nil, fail("create styles", err)
	}

	columns := core.Columns
	if rs.Scored {
		columns = append([]string{scoreColumn}, core.Columns...)
	}

	header := make([]any, len(columns))
	widths := make([]int, len(columns))
	for i, c := range columns {
		label := ScoreLabel
		if c != scoreColumn {
			label = Labels[c]
		}
		header[i] = label
		widths[i] = utf8.RuneCountInString(label)
	}
	if err := f.SetSheetRow(SheetPackages, "A1", &header); err != nil {
		return nil, fail("write header", err)
	}

	for i := range rs.Matches {
		m := &rs.Matches[i]
		row := make([]any, 0, len(columns))
		if rs.Scored {
			row = append(row, m.Score)
		}
		row = append(row, cellValues(&m.Record)...)

		for j, v := range row {
			if n := utf8.RuneCountInString(fmt.Sprint(v)); v != nil && n > widths[j] {
				widths[j] = n
			}
		}
		if col, n := longestText(row); n > excelize.TotalCellChars {
			return nil, &core.GenerationError{
				Format: string(FormatXLSX),
				Message: fmt.Sprintf("%s of package %s has %d characters, over the %d cell limit",
					columns[col], m.Record.PackageCode, n, excelize.TotalCellChars),
			}
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetPackages, cell, &row); err != nil {
			return nil, fail("write row", err)
		}
	}

	lastRow := rs.Len() + 1
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(SheetPackages, "A1", lastCol+"1", styles.header); err != nil {
		return nil, fail("style header", err)
	}
	if err := f.SetRowHeight(SheetPackages, 1, 30); err != nil {
		return nil, fail("style header", err)
	}

	for i, c := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetCellStyle(SheetPackages, col+"2", fmt.Sprintf("%s%d", col, lastRow), styles.forColumn(c)); err != nil {
			return nil, fail("style column "+c, err)
		}
		if err := f.SetColWidth(SheetPackages, col, col, columnWidth(c, widths[i])); err != nil {
			return nil, fail("size column "+c, err)
		}
	}

	if err := f.SetPanes(SheetPackages, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fail("freeze header", err)
	}
	if err := f.AutoFilter(SheetPackages, fmt.Sprintf("A1:%s%d", lastCol, lastRow), []excelize.AutoFilterOptions{}); err != nil {
		return nil, fail("add filter", err)
	}

	if err := g.infoSheet(f, rs); err != nil {
		return nil, fail("write info sheet", err)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fail("serialize workbook", err)
	}
	return buf.Bytes(), nil
}

// cellValues returns typed cell values in core.Columns order. Numbers stay
// numeric and absent values stay empty.
func cellValues(r *core.Record) []any {
	num := func(o core.Optional[float64]) any {
		if v, ok := o.Get(); ok {
			return v
		}
		return nil
	}
	integer := func(o core.Optional[int]) any {
		if v, ok := o.Get(); ok {
			return v
		}
		return nil
	}
	var voice any = r.VoiceMinutes.Text
	if r.VoiceMinutes.IsNumeric() {
		voice = r.VoiceMinutes.Minutes.Value
	} else if r.VoiceMinutes.Text == "" {
		voice = nil
	}

	return []any{
		string(r.Source),
		r.PackageCode,
		r.PackageName,
		num(r.Price),
		integer(r.CycleDays),
		num(r.DataGB),
		voice,
		integer(r.SMSCount),
		r.PackageType,
		r.Description,
		r.FullDescription,
		r.RegistrationSyntax,
		r.CancellationSyntax,
		r.CheckSyntax,
		r.Eligibility,
		r.RenewalPolicy,
		r.SupportHotline,
		r.OriginalLink,
	}
}

// longestText returns the index and rune length of the longest string cell.
func longestText(row []any) (int, int) {
	idx, longest := -1, 0
	for i, v := range row {
		if str, ok := v.(string); ok {
			if n := utf8.RuneCountInString(str); n > longest {
				idx, longest = i, n
			}
		}
	}
	return idx, longest
}

func columnWidth(col string, contentLen int) float64 {
	if w, ok := fixedWidths[col]; ok {
		return w
	}
	return float64(min(max(contentLen+2, minColWidth), maxColWidth))
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	thin := func(color string) []excelize.Border {
		return []excelize.Border{
			{Type: "left", Color: color, Style: 1},
			{Type: "right", Color: color, Style: 1},
			{Type: "top", Color: color, Style: 1},
			{Type: "bottom", Color: color, Style: 1},
		}
	}
	cellBorder := thin("E0E0E0")
	right := &excelize.Alignment{Horizontal: "right"}
	scoreFmt := "0.0"

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"366092"}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thin("000000"),
		}},
		{&s.text, &excelize.Style{Border: cellBorder, Alignment: &excelize.Alignment{Vertical: "top"}}},
		{&s.wrap, &excelize.Style{Border: cellBorder, Alignment: &excelize.Alignment{Vertical: "top", WrapText: true}}},
		{&s.code, &excelize.Style{
			Border:    cellBorder,
			Font:      &excelize.Font{Bold: true},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&s.price, &excelize.Style{Border: cellBorder, Alignment: right, NumFmt: 3}},
		{&s.decimal, &excelize.Style{Border: cellBorder, Alignment: right, NumFmt: 2}},
		{&s.integer, &excelize.Style{Border: cellBorder, Alignment: right, NumFmt: 1}},
		{&s.score, &excelize.Style{Border: cellBorder, Alignment: right, CustomNumFmt: &scoreFmt}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, err
		}
		*d.dst = id
	}
	return s, nil
}

func (s sheetStyles) forColumn(col string) int {
	switch col {
	case scoreColumn:
		return s.score
	case core.ColPrice:
		return s.price
	case core.ColDataGB:
		return s.decimal
	case core.ColCycleDays, core.ColSMSCount, core.ColVoiceMinutes:
		return s.integer
	case core.ColPackageCode:
		return s.code
	case core.ColDescription, core.ColFullDescription:
		return s.wrap
	}
	return s.text
}

func (g *Generator) infoSheet(f *excelize.File, rs core.ResultSet) error {
	if _, err := f.NewSheet(SheetInfo); err != nil {
		return err
	}
	rows := [][]any{
		{"Báo cáo gói cước viễn thông", ""},
		{"Ngày tạo", g.Now().Format("2006-01-02 15:04:05")},
		{"Số lượng gói", rs.Len()},
		{"", ""},
		{"Nguồn dữ liệu", ""},
	}
	for _, c := range core.Summarize(rs.Records()).BySource {
		rows = append(rows, []any{"  - " + c.Key, c.Count})
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetInfo, cell, &rows[i]); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetInfo, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetInfo, "A", "B", 30)
}
