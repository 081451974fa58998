package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/log"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packages.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func header() string {
	return strings.Join(core.Columns, ",") + "\n"
}

func TestLoadFixture(t *testing.T) {
	s := New("testdata/packages.csv")
	records, err := s.Load()
	require.NoError(t, err)
	require.Len(t, records, 5)

	d15 := records[0]
	assert.Equal(t, core.SourceMyVNPT, d15.Source)
	assert.Equal(t, "D15", d15.PackageCode)
	assert.Equal(t, core.Some(15000.0), d15.Price)
	assert.Equal(t, core.Some(1), d15.CycleDays)
	assert.Equal(t, core.Some(1.5), d15.DataGB)
	assert.False(t, d15.SMSCount.Valid)
	assert.Equal(t, "Gói D15, 1.5GB tốc độ cao", d15.FullDescription)

	big := records[2]
	assert.Equal(t, "Miễn phí nội mạng", big.VoiceMinutes.String())
	assert.False(t, big.VoiceMinutes.IsNumeric())
	assert.Equal(t, core.Some(100), big.SMSCount)

	st30 := records[4]
	assert.False(t, st30.Price.Valid, "unparsable price becomes absent")
	assert.Equal(t, core.Some(30), st30.CycleDays, "integral float accepted")
	assert.False(t, records[3].DataGB.Valid)
}

func TestLoadCompressed(t *testing.T) {
	raw, err := os.ReadFile("testdata/packages.csv")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "packages.csv.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write(raw)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	records, err := New(path).Load()
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.True(t, IsCompressed("Plans.CSV.ZST"))
	assert.False(t, IsCompressed("plans.csv"))
}

func TestLoadCorruptCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.csv.zst")
	require.NoError(t, os.WriteFile(path, []byte("not zstd at all"), 0o644))

	_, err := New(path).Load()
	var dse *core.DataSourceError
	require.True(t, errors.As(err, &dse), "got %v", err)
	assert.Equal(t, path, dse.Path)
}

func TestLoadIsCached(t *testing.T) {
	path := writeCSV(t, header()+"myvnpt,A1,A,1000,,,,,,,,,,,,,,\n")
	s := New(path)
	first, err := s.Load()
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	second, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Same(t, &first[0], &second[0])
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope.csv"))
	_, err := s.Load()

	var dse *core.DataSourceError
	require.True(t, errors.As(err, &dse))
	assert.Equal(t, "file not found", dse.Message)
	assert.Contains(t, dse.Path, "nope.csv")

	_, err = s.Stats()
	assert.Error(t, err)
}

func TestLoadMissingColumns(t *testing.T) {
	path := writeCSV(t, "source,package_code,package_name\nmyvnpt,D15,x\n")
	_, err := New(path).Load()

	var dse *core.DataSourceError
	require.True(t, errors.As(err, &dse))
	assert.Contains(t, dse.Message, "price")
	assert.Equal(t, path, dse.Path)
}

func TestLoadMajorityBadPrices(t *testing.T) {
	body := header() +
		"myvnpt,A,A,free,,,,,,,,,,,,,,\n" +
		"myvnpt,B,B,n/a,,,,,,,,,,,,,,\n" +
		"myvnpt,C,C,1000,,,,,,,,,,,,,,\n"
	_, err := New(writeCSV(t, body)).Load()

	var dse *core.DataSourceError
	require.True(t, errors.As(err, &dse))
	assert.Contains(t, dse.Message, "2 of 3")
}

func TestLoadMinorityBadPricesTolerated(t *testing.T) {
	body := header() +
		"myvnpt,A,A,-5,,,,,,,,,,,,,,\n" +
		"myvnpt,B,B,2000,,,,,,,,,,,,,,\n" +
		"myvnpt,C,C,1000,,,,,,,,,,,,,,\n"
	records, err := New(writeCSV(t, body)).Load()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.False(t, records[0].Price.Valid, "negative price is absent")
}

func TestLoadNonFiniteVoiceIsText(t *testing.T) {
	row := func(code, voice string) string {
		cells := make([]string, len(core.Columns))
		cells[0], cells[1], cells[3], cells[6] = "myvnpt", code, "1000", voice
		return strings.Join(cells, ",") + "\n"
	}
	body := header() + row("A", "nan") + row("B", "inf") + row("C", "120")

	records, err := New(writeCSV(t, body)).Load()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.False(t, records[0].VoiceMinutes.IsNumeric())
	assert.Equal(t, "nan", records[0].VoiceMinutes.Text)
	assert.False(t, records[1].VoiceMinutes.IsNumeric())
	assert.True(t, records[2].VoiceMinutes.IsNumeric())
	assert.Equal(t, 120.0, records[2].VoiceMinutes.Minutes.Value)
}

func TestLoadBOMAndExtraColumns(t *testing.T) {
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	defer log.SetOutput(os.Stderr)

	body := "\ufeff" + strings.Join(core.Columns, ",") + ",scraped_at\n" +
		"vinaphone,X1,X,5000,,,,,,,,,,,,,,,2024-01-01\n"
	records, err := New(writeCSV(t, body)).Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, core.SourceVinaphone, records[0].Source)
	assert.Contains(t, buf.String(), `ignoring unknown column "scraped_at"`)
}

func TestDuplicatesPreserved(t *testing.T) {
	body := header() +
		"myvnpt,D15,first,15000,,,,,,,,,,,,,,\n" +
		"myvnpt,D15,second,15000,,,,,,,,,,,,,,\n"
	s := New(writeCSV(t, body))
	records, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, records, 2)

	r, ok, err := s.ByCode("d15")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", r.PackageName)
}

func TestByCodeAndBySource(t *testing.T) {
	s := New("testdata/packages.csv")

	_, ok, err := s.ByCode("NOPE")
	require.NoError(t, err)
	assert.False(t, ok)

	vina, err := s.BySource(core.SourceVinaphone)
	require.NoError(t, err)
	require.Len(t, vina, 2)
	assert.Equal(t, "BIG30", vina[0].PackageCode)
}

func TestStatsMyVNPTCount(t *testing.T) {
	var b strings.Builder
	b.WriteString(header())
	for i := 0; i < 236; i++ {
		fmt.Fprintf(&b, "myvnpt,M%d,Gói %d,%d,30,1,,,data,,,,,,,,,\n", i, i, 10000+i)
	}
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "digishop,G%d,Gói %d,%d,7,,,,game,,,,,,,,,\n", i, i, 5000+i)
	}
	s := New(writeCSV(t, b.String()))

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 276, st.Total)
	assert.Equal(t, 236, st.SourceCount(core.SourceMyVNPT))
	assert.Equal(t, 40, st.SourceCount(core.SourceDigishop))
	assert.Equal(t, 5000.0, st.Price.Min)
	assert.Equal(t, 10235.0, st.Price.Max)

	myvnpt, err := s.BySource(core.SourceMyVNPT)
	require.NoError(t, err)
	assert.Len(t, myvnpt, 236)
}

func TestFromRecords(t *testing.T) {
	s := FromRecords([]core.Record{{PackageCode: "A", Source: core.SourceDigishop}})
	records, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, records, 1)
	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, st.SourceCount(core.SourceDigishop))
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	var dse *core.DataSourceError
	require.True(t, errors.As(err, &dse))

	res, err := Parse(strings.NewReader(header()))
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}
