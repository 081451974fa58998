// Package report serializes a complete result set to a spreadsheet, a CSV
// file or a plain-text summary and returns the bytes.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/log"
)

// Format is an export artifact type.
type Format string

const (
	FormatXLSX    Format = "xlsx"
	FormatCSV     Format = "csv"
	FormatSummary Format = "summary"
)

// Formats lists every supported format in menu order.
var Formats = []Format{FormatXLSX, FormatCSV, FormatSummary}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", core.NewValidationError("format", "unknown export format %q", s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	if f == FormatSummary {
		return "txt"
	}
	return string(f)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename is the download name for an artifact generated at t, for example
// package_report_20240131_154500.xlsx or package_summary_20240131_154500.txt.
func Filename(f Format, t time.Time) string {
	prefix := "package_report"
	if f == FormatSummary {
		prefix = "package_summary"
	}
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format("20060102_150405"), f.Ext())
}

// Generator produces export artifacts. The zero value is not usable; call New.
type Generator struct {
	// Now stamps generated artifacts.
	Now func() time.Time
	// MaxRows is the spreadsheet row limit, header included.
	MaxRows int

	logger *log.Logger
}

// New returns a Generator with the real clock and the xlsx row limit.
func New() *Generator {
	return &Generator{
		Now:     time.Now,
		MaxRows: excelize.TotalRows,
		logger:  log.ForService("report"),
	}
}

// Generate serializes every match in rs. Spreadsheet and CSV exports of an
// empty set fail with *core.GenerationError; the summary reports zero counts.
// Sets that do not fit the spreadsheet row limit, or text longer than a
// spreadsheet cell holds, fail rather than truncate.
func (g *Generator) Generate(f Format, rs core.ResultSet) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatXLSX:
		if err = g.checkRows(f, rs.Len()); err == nil {
			data, err = g.xlsx(rs)
		}
	case FormatCSV:
		if err = checkEmpty(f, rs.Len()); err == nil {
			data, err = g.csv(rs)
		}
	case FormatSummary:
		data = g.summary(rs)
	default:
		return nil, core.NewValidationError("format", "unknown export format %q", f)
	}
	if err != nil {
		g.logger.Errorf("%v", err)
		return nil, err
	}
	g.logger.Infof("generated %s report: %d records, %d bytes", f, rs.Len(), len(data))
	return data, nil
}

func checkEmpty(f Format, n int) error {
	if n == 0 {
		return &core.GenerationError{Format: string(f), Message: "no records to export"}
	}
	return nil
}

// checkRows applies the spreadsheet row limit. CSV has none.
func (g *Generator) checkRows(f Format, n int) error {
	if err := checkEmpty(f, n); err != nil {
		return err
	}
	if n+1 > g.MaxRows {
		return &core.GenerationError{
			Format:  string(f),
			Message: fmt.Sprintf("%d records exceed the %d row limit", n, g.MaxRows-1),
		}
	}
	return nil
}

// Labels are the human-readable column headers, keyed by column name.
var Labels = map[string]string{
	core.ColSource:             "Nguồn",
	core.ColPackageCode:        "Mã gói",
	core.ColPackageName:        "Tên gói",
	core.ColPrice:              "Giá (VNĐ)",
	core.ColCycleDays:          "Chu kỳ (ngày)",
	core.ColDataGB:             "Data (GB)",
	core.ColVoiceMinutes:       "Phút gọi",
	core.ColSMSCount:           "SMS",
	core.ColPackageType:        "Loại gói",
	core.ColDescription:        "Mô tả",
	core.ColFullDescription:    "Chi tiết",
	core.ColRegistrationSyntax: "Cú pháp ĐK",
	core.ColCancellationSyntax: "Cú pháp hủy",
	core.ColCheckSyntax:        "Cú pháp tra cứu",
	core.ColEligibility:        "Điều kiện",
	core.ColRenewalPolicy:      "Chính sách GH",
	core.ColSupportHotline:     "Hotline",
	core.ColOriginalLink:       "Link gốc",
}

// ScoreLabel heads the similarity column of scored spreadsheets.
const ScoreLabel = "Score (%)"
