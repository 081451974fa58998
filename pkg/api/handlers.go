package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/filter"
	"github.com/rubiojr/dataplans/pkg/paginate"
	"github.com/rubiojr/dataplans/pkg/report"
	"github.com/rubiojr/dataplans/pkg/search"
	"github.com/rubiojr/dataplans/pkg/version"
)

// query parses the search parameters and filters of a request and runs
// them. A blank q browses the filtered dataset.
func (s *Server) query(values url.Values) (search.Params, filter.Criteria, core.ResultSet, error) {
	params, err := search.ParseParamsFrom(s.defaults, values)
	if err != nil {
		return params, filter.Criteria{}, core.ResultSet{}, err
	}
	criteria, err := filter.Parse(values)
	if err != nil {
		return params, criteria, core.ResultSet{}, err
	}

	var keep func(*core.Record) bool
	if !criteria.IsZero() {
		keep = criteria.Match
	}
	if params.Query == "" {
		return params, criteria, s.engine.Browse(keep), nil
	}
	rs, err := s.engine.Run(params, keep)
	return params, criteria, rs, err
}

func (s *Server) writeResults(w http.ResponseWriter, params search.Params, criteria filter.Criteria, rs core.ResultSet) {
	page := paginate.Paginate(rs.Matches, params.Size, params.Page)
	matches := page.Items
	if matches == nil {
		matches = []core.Match{}
	}
	s.writeJSON(w, http.StatusOK, ResultsResponse{
		Query:      rs.Query,
		Kind:       rs.Kind,
		Scored:     rs.Scored,
		Filters:    criteria,
		Matches:    matches,
		Count:      len(matches),
		TotalCount: page.TotalItems,
		Page:       page.Number,
		Size:       page.Size,
		TotalPages: page.TotalPages,
		HasMore:    page.HasNext(),
	})
}

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	if values.Get("q") == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'q' is required")
		return
	}

	params, criteria, rs, err := s.query(values)
	if err != nil {
		s.writeErr(w, "Search failed", err)
		return
	}
	s.writeResults(w, params, criteria, rs)
}

func (s *Server) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	values.Del("q")

	params, criteria, rs, err := s.query(values)
	if err != nil {
		s.writeErr(w, "Browse failed", err)
		return
	}
	s.writeResults(w, params, criteria, rs)
}

func (s *Server) HandlePackage(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid path", "Package code is required")
		return
	}

	rec, ok, err := s.store.ByCode(code)
	if err != nil {
		s.writeErr(w, "Lookup failed", err)
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, "Package not found", fmt.Sprintf("Package '%s' does not exist", code))
		return
	}
	s.writeJSON(w, http.StatusOK, PackageResponse{Package: rec})
}

func (s *Server) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = search.DefaultSuggestLimit
	}

	suggestions := s.engine.Suggest(q, limit)
	if suggestions == nil {
		suggestions = []string{}
	}
	s.writeJSON(w, http.StatusOK, SuggestResponse{Query: q, Suggestions: suggestions})
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.writeErr(w, "Failed to get stats", err)
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

// HandleExport generates an artifact from the full, unpaginated result of
// the same parameters HandleSearch and HandleBrowse accept.
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	f, err := report.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.writeErr(w, "Invalid format", err)
		return
	}

	_, _, rs, err := s.query(r.URL.Query())
	if err != nil {
		s.writeErr(w, "Export failed", err)
		return
	}

	data, err := s.reports.Generate(f, rs)
	if err != nil {
		s.writeErr(w, "Export failed", err)
		return
	}

	name := report.Filename(f, s.reports.Now())
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warnf("writing %s: %v", name, err)
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
		Records:   s.engine.Len(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
