package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/format"
)

const topN = 10

func (g *Generator) summary(rs core.ResultSet) []byte {
	records := rs.Records()
	st := core.Summarize(records)

	var b strings.Builder
	rule := strings.Repeat("=", 60)
	sub := strings.Repeat("-", 40)
	section := func(title string) {
		fmt.Fprintf(&b, "%s:\n%s\n", title, sub)
	}

	fmt.Fprintf(&b, "%s\nBÁO CÁO TỔNG HỢP GÓI CƯỚC\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Ngày tạo: %s\n", g.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Tổng số gói: %d\n\n", st.Total)

	section("Phân bổ theo nguồn")
	for _, c := range st.BySource {
		fmt.Fprintf(&b, "  %s: %d gói (%s)\n", c.Key, c.Count, format.Percent(c.Percent))
	}
	b.WriteString("\n")

	section("Thống kê giá")
	if st.Price.Count > 0 {
		fmt.Fprintf(&b, "  Min: %s VNĐ\n", format.Number(st.Price.Min))
		fmt.Fprintf(&b, "  Max: %s VNĐ\n", format.Number(st.Price.Max))
		fmt.Fprintf(&b, "  Trung bình: %s VNĐ\n", format.Number(st.Price.Mean))
		fmt.Fprintf(&b, "  Trung vị: %s VNĐ\n", format.Number(st.Price.Median))
	} else {
		b.WriteString("  Không có dữ liệu giá\n")
	}
	b.WriteString("\n")

	if st.Data.Count > 0 {
		section("Thống kê dung lượng")
		fmt.Fprintf(&b, "  Min: %.2f GB\n", st.Data.Min)
		fmt.Fprintf(&b, "  Max: %.2f GB\n", st.Data.Max)
		fmt.Fprintf(&b, "  Trung bình: %.2f GB\n", st.Data.Mean)
		b.WriteString("\n")
	}

	if len(st.ByType) > 0 {
		section("Phân loại gói")
		for _, c := range st.ByType {
			fmt.Fprintf(&b, "  %s: %d gói\n", c.Key, c.Count)
		}
		b.WriteString("\n")
	}

	if top := topBy(records, func(r *core.Record) core.Optional[float64] { return r.Price }); len(top) > 0 {
		section("Top 10 gói đắt nhất")
		for i, r := range top {
			fmt.Fprintf(&b, "  %d. %s: %s VNĐ\n", i+1, r.PackageCode, format.Number(r.Price.Value))
		}
		b.WriteString("\n")
	}

	if top := topBy(records, func(r *core.Record) core.Optional[float64] { return r.DataGB }); len(top) > 0 {
		section("Top 10 gói data lớn nhất")
		for i, r := range top {
			fmt.Fprintf(&b, "  %d. %s: %.2f GB\n", i+1, r.PackageCode, r.DataGB.Value)
		}
	}

	return []byte(b.String())
}

// topBy returns up to topN records with the largest present value, ties in
// dataset order.
func topBy(records []core.Record, value func(*core.Record) core.Optional[float64]) []core.Record {
	var out []core.Record
	for i := range records {
		if value(&records[i]).Valid {
			out = append(out, records[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return value(&out[a]).Value > value(&out[b]).Value
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
