package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/format"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 0, 0)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	tableHeaderStyle = cellStyle.
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	numberStyle = cellStyle.Align(lipgloss.Right)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// resultsTable renders matches as a bordered table. Numeric columns are
// right aligned; the score column appears only for scored sets.
func resultsTable(rs core.ResultSet) string {
	headers := []string{"#", "Code", "Name", "Source", "Price", "Data", "Cycle", "Voice"}
	numeric := map[int]bool{0: true, 4: true, 5: true}
	if rs.Scored {
		headers = append([]string{"#", "Score"}, headers[1:]...)
		numeric = map[int]bool{0: true, 1: true, 5: true, 6: true}
	}

	rows := make([][]string, 0, rs.Len())
	for i, m := range rs.Matches {
		r := m.Record
		row := []string{strconv.Itoa(i + 1)}
		if rs.Scored {
			row = append(row, format.Score(m.Score))
		}
		row = append(row,
			r.PackageCode,
			format.Truncate(format.Text(r.PackageName), 40),
			format.Source(r.Source),
			format.Currency(r.Price),
			format.Data(r.DataGB),
			format.Cycle(r.CycleDays),
			format.Truncate(format.Voice(r.VoiceMinutes), 24),
		)
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case numeric[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

// printResults writes a result set for the terminal.
func printResults(w io.Writer, rs core.ResultSet) {
	if rs.Empty() {
		fmt.Fprintln(w, noDataStyle.Render("No packages found"))
		return
	}
	fmt.Fprintln(w, resultsTable(rs))

	label := "packages"
	if rs.Len() == 1 {
		label = "package"
	}
	summary := fmt.Sprintf("%s %s", format.Number(float64(rs.Len())), label)
	if rs.Query != "" {
		summary += fmt.Sprintf(" for %q (%s)", rs.Query, rs.Kind)
	}
	fmt.Fprintln(w, summaryStyle.Render(summary))
}

// printStats writes the dataset statistics.
func printStats(w io.Writer, path string, stats core.Stats) {
	fmt.Fprintln(w, titleStyle.Render("📊 Package Statistics"))
	fmt.Fprintln(w, metaStyle.Render(path))
	fmt.Fprintf(w, "Total packages: %s\n", summaryStyle.Render(format.Number(float64(stats.Total))))

	if stats.Total == 0 {
		fmt.Fprintln(w, noDataStyle.Render("The dataset is empty."))
		return
	}

	fmt.Fprintln(w, headerStyle.Render("By source"))
	fmt.Fprintln(w, countsTable(stats.BySource, func(k string) string {
		return format.Source(core.Source(k))
	}))

	fmt.Fprintln(w, headerStyle.Render("By type"))
	types := stats.ByType
	if len(types) > 10 {
		types = types[:10]
	}
	fmt.Fprintln(w, countsTable(types, func(k string) string {
		if strings.TrimSpace(k) == "" {
			return "(none)"
		}
		return k
	}))

	fmt.Fprintln(w, headerStyle.Render("Values"))
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("", "Count", "Min", "Median", "Mean", "Max").
		Row(numberRow("Price", stats.Price, func(v float64) string { return format.Currency(core.Some(v)) })...).
		Row(numberRow("Data", stats.Data, func(v float64) string { return format.Data(core.Some(v)) })...).
		Row(numberRow("Cycle", stats.Cycle, func(v float64) string { return format.Cycle(core.Some(int(v))) })...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col > 0:
				return numberStyle
			default:
				return cellStyle
			}
		})
	fmt.Fprintln(w, t.String())
}

func countsTable(counts []core.Count, label func(string) string) string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{label(c.Key), format.Number(float64(c.Count)), format.Percent(c.Percent)})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("", "Packages", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col > 0:
				return numberStyle
			default:
				return cellStyle
			}
		}).
		String()
}

func numberRow(name string, s core.NumberStats, f func(float64) string) []string {
	if s.Count == 0 {
		return []string{name, "0", format.Absent, format.Absent, format.Absent, format.Absent}
	}
	return []string{name, format.Number(float64(s.Count)), f(s.Min), f(s.Median), f(s.Mean), f(s.Max)}
}
