package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rubiojr/dataplans/pkg/core"
)

const bom = "\ufeff"

// ParseResult is the outcome of parsing one CSV stream.
type ParseResult struct {
	Records      []core.Record
	ExtraColumns []string
	// BadPrices counts rows whose non-empty price could not be used.
	BadPrices int
}

// Parse reads a CSV stream with the fixed 18-column header. Every column must
// be present; unknown columns are reported and ignored. Fields that fail to
// parse become absent without dropping the row. If more than half the rows
// carry an unusable price the whole file is rejected.
func Parse(r io.Reader) (*ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &core.DataSourceError{Message: "file is empty"}
	}
	if err != nil {
		return nil, &core.DataSourceError{Message: "cannot read header", Cause: err}
	}

	index, extra, missing := mapHeader(header)
	if len(missing) > 0 {
		return nil, &core.DataSourceError{
			Message: fmt.Sprintf("missing columns: %s", strings.Join(missing, ", ")),
		}
	}

	res := &ParseResult{ExtraColumns: extra}
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &core.DataSourceError{Message: fmt.Sprintf("line %d", line), Cause: err}
		}
		if isBlank(row) {
			continue
		}
		rec, badPrice := parseRow(row, index)
		if badPrice {
			res.BadPrices++
		}
		res.Records = append(res.Records, rec)
	}

	if n := len(res.Records); n > 0 && res.BadPrices*2 > n {
		return nil, &core.DataSourceError{
			Message: fmt.Sprintf("price unparsable on %d of %d rows", res.BadPrices, n),
		}
	}
	return res, nil
}

func mapHeader(header []string) (index map[string]int, extra, missing []string) {
	index = make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[h]; dup {
			continue
		}
		index[h] = i
	}

	known := make(map[string]bool, len(core.Columns))
	for _, c := range core.Columns {
		known[c] = true
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	for _, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, bom)))
		if h != "" && !known[h] {
			extra = append(extra, h)
		}
	}
	return index, extra, missing
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, index map[string]int) (core.Record, bool) {
	get := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rawPrice := get(core.ColPrice)
	price := parseFloat(rawPrice)
	badPrice := rawPrice != "" && !price.Valid

	return core.Record{
		Source:             core.ParseSource(get(core.ColSource)),
		PackageCode:        get(core.ColPackageCode),
		PackageName:        get(core.ColPackageName),
		Price:              price,
		CycleDays:          parseInt(get(core.ColCycleDays)),
		DataGB:             parseFloat(get(core.ColDataGB)),
		VoiceMinutes:       core.ParseVoice(get(core.ColVoiceMinutes)),
		SMSCount:           parseInt(get(core.ColSMSCount)),
		PackageType:        get(core.ColPackageType),
		Description:        get(core.ColDescription),
		FullDescription:    get(core.ColFullDescription),
		RegistrationSyntax: get(core.ColRegistrationSyntax),
		CancellationSyntax: get(core.ColCancellationSyntax),
		CheckSyntax:        get(core.ColCheckSyntax),
		Eligibility:        get(core.ColEligibility),
		RenewalPolicy:      get(core.ColRenewalPolicy),
		SupportHotline:     get(core.ColSupportHotline),
		OriginalLink:       get(core.ColOriginalLink),
	}, badPrice
}

// parseFloat accepts non-negative finite numbers. Anything else is absent.
func parseFloat(s string) core.Optional[float64] {
	if s == "" {
		return core.Optional[float64]{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return core.Optional[float64]{}
	}
	return core.Some(f)
}

// parseInt accepts integers and integral floats such as "30.0".
func parseInt(s string) core.Optional[int] {
	f := parseFloat(s)
	if !f.Valid || f.Value != math.Trunc(f.Value) || f.Value > math.MaxInt32 {
		return core.Optional[int]{}
	}
	return core.Some(int(f.Value))
}
