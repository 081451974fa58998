// Package format renders record values for people: grouped currency,
// data volumes, billing cycles and source labels. Absent values render as "-".
package format

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rubiojr/dataplans/pkg/core"
)

// Absent is shown in place of missing values.
const Absent = "-"

func grouped(v int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", v)
}

// Number groups thousands: 150000 -> "150,000".
func Number(v float64) string {
	return grouped(int64(math.Round(v)))
}

// Currency formats a price in đồng: "15,000 đ".
func Currency(o core.Optional[float64]) string {
	v, ok := o.Get()
	if !ok {
		return Absent
	}
	return Number(v) + " đ"
}

// Data formats a volume in gigabytes with two decimals: "2.50 GB".
func Data(o core.Optional[float64]) string {
	v, ok := o.Get()
	if !ok {
		return Absent
	}
	return fmt.Sprintf("%.2f GB", v)
}

// Cycle renders a billing cycle in days, weeks or months depending on its
// length: "1 ngày", "2.0 tuần", "1 tháng".
func Cycle(o core.Optional[int]) string {
	d, ok := o.Get()
	if !ok {
		return Absent
	}
	switch {
	case d < 7:
		return fmt.Sprintf("%d ngày", d)
	case d < 30:
		return fmt.Sprintf("%.1f tuần", float64(d)/7)
	default:
		return fmt.Sprintf("%.0f tháng", float64(d)/30)
	}
}

// Int formats an optional count.
func Int(o core.Optional[int]) string {
	v, ok := o.Get()
	if !ok {
		return Absent
	}
	return grouped(int64(v))
}

// Voice formats voice minutes, numeric or free text.
func Voice(v core.Voice) string {
	if v.IsNumeric() {
		return grouped(int64(math.Round(v.Minutes.Value))) + " phút"
	}
	return Text(v.Text)
}

// Text returns s or Absent when blank.
func Text(s string) string {
	if strings.TrimSpace(s) == "" {
		return Absent
	}
	return s
}

// Score formats a similarity score: "95.0%".
func Score(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Percent formats a share with one decimal.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Truncate shortens s to at most n runes, ending with "…" when cut.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

var sourceLabels = map[core.Source]string{
	core.SourceMyVNPT:    "MyVNPT",
	core.SourceVinaphone: "VinaPhone",
	core.SourceDigishop:  "DigiShop",
}

// Source returns the display label of a source.
func Source(s core.Source) string {
	if l, ok := sourceLabels[s]; ok {
		return l
	}
	if s == "" {
		return Absent
	}
	return cases.Title(language.Und).String(string(s))
}
