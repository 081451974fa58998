// Package store loads the data-plan CSV into memory once and serves the
// cached records and their summary statistics for the life of the process.
package store

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/log"
)

// Store is a read-only, lazily loaded record table.
type Store struct {
	path string

	once    sync.Once
	records []core.Record
	stats   core.Stats
	err     error
	logger  *log.Logger
}

// New returns a Store backed by the CSV file at path. Nothing is read until Load.
func New(path string) *Store {
	return &Store{path: path, logger: log.ForService("store")}
}

// FromRecords returns an already loaded Store holding records.
func FromRecords(records []core.Record) *Store {
	s := New("")
	s.once.Do(func() {
		s.records = records
		s.stats = core.Summarize(records)
	})
	return s
}

// IsCompressed reports whether path names a zstd compressed CSV file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads and parses the file on first call. Later calls return the
// same slice, or the same error, without touching the file again.
// Callers must not modify the returned records.
func (s *Store) Load() ([]core.Record, error) {
	s.once.Do(s.load)
	return s.records, s.err
}

func (s *Store) load() {
	s.logger.Infof("loading data from %s", s.path)

	f, err := os.Open(s.path)
	if err != nil {
		msg := "cannot open file"
		if errors.Is(err, fs.ErrNotExist) {
			msg = "file not found"
		}
		s.err = &core.DataSourceError{Path: s.path, Message: msg, Cause: err}
		s.logger.Errorf("%v", s.err)
		return
	}
	defer f.Close()

	var r io.Reader = f
	if IsCompressed(s.path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			s.err = &core.DataSourceError{Path: s.path, Message: "cannot decompress file", Cause: err}
			s.logger.Errorf("%v", s.err)
			return
		}
		defer dec.Close()
		r = dec
		s.logger.Debugf("reading zstd compressed data")
	}

	res, err := Parse(r)
	if err != nil {
		var dse *core.DataSourceError
		if errors.As(err, &dse) {
			dse.Path = s.path
		} else {
			err = &core.DataSourceError{Path: s.path, Message: "cannot parse file", Cause: err}
		}
		s.err = err
		s.logger.Errorf("%v", s.err)
		return
	}

	for _, col := range res.ExtraColumns {
		s.logger.Warnf("ignoring unknown column %q", col)
	}
	if res.BadPrices > 0 {
		s.logger.Warnf("%d rows with unparsable price set to absent", res.BadPrices)
	}

	s.records = res.Records
	s.stats = core.Summarize(res.Records)
	s.logger.Infof("loaded %d packages", len(s.records))
}

// Stats returns the summary computed at load time. It loads the file if needed.
func (s *Store) Stats() (core.Stats, error) {
	if _, err := s.Load(); err != nil {
		return core.Stats{}, err
	}
	return s.stats, nil
}

// ByCode returns the first record whose code equals code, ignoring case.
func (s *Store) ByCode(code string) (core.Record, bool, error) {
	records, err := s.Load()
	if err != nil {
		return core.Record{}, false, err
	}
	code = strings.TrimSpace(code)
	for _, r := range records {
		if strings.EqualFold(r.PackageCode, code) {
			return r, true, nil
		}
	}
	return core.Record{}, false, nil
}

// BySource returns all records from one source, in dataset order.
func (s *Store) BySource(src core.Source) ([]core.Record, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	var out []core.Record
	for _, r := range records {
		if r.Source == src {
			out = append(out, r)
		}
	}
	return out, nil
}
