package report

import (
	"bytes"
	"encoding/csv"

	"github.com/rubiojr/dataplans/pkg/core"
)

// csv writes the 18 input columns with a UTF-8 BOM so spreadsheet apps
// detect the encoding. The output parses back with store.Parse.
func (g *Generator) csv(rs core.ResultSet) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")

	w := csv.NewWriter(&buf)
	if err := w.Write(core.Columns); err != nil {
		return nil, &core.GenerationError{Format: string(FormatCSV), Message: "write header", Cause: err}
	}
	for i := range rs.Matches {
		if err := w.Write(rs.Matches[i].Record.Values()); err != nil {
			return nil, &core.GenerationError{Format: string(FormatCSV), Message: "write row", Cause: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, &core.GenerationError{Format: string(FormatCSV), Message: "flush", Cause: err}
	}
	return buf.Bytes(), nil
}
