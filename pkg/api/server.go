// Package api serves the stateless JSON interface over the package catalogue.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/log"
	"github.com/rubiojr/dataplans/pkg/report"
	"github.com/rubiojr/dataplans/pkg/search"
	"github.com/rubiojr/dataplans/pkg/store"
)

type Server struct {
	store    *store.Store
	engine   *search.Engine
	reports  *report.Generator
	defaults search.Params
	logger   *log.Logger
}

// NewServer returns a Server answering from the records in st. The store
// must already be loaded.
func NewServer(st *store.Store, engine *search.Engine, reports *report.Generator) *Server {
	return &Server{
		store:    st,
		engine:   engine,
		reports:  reports,
		defaults: search.DefaultParams(),
		logger:   log.ForService("api"),
	}
}

// SetDefaults replaces the parameters used for values a request omits.
func (s *Server) SetDefaults(p search.Params) {
	s.defaults = p
}

// Handler returns the API routes wrapped with CORS and gzip compression.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return gzhttp.GzipHandler(CorsMiddleware(mux))
}

// writeJSON encodes data before sending any header, so an encoding failure
// becomes a 500 instead of an empty 200.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintln(w, `{"error":"Internal error","message":"cannot encode response"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debugf("writing JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:   error,
		Message: message,
	})
}

// writeErr maps err to a status with HTTPStatus and writes it.
func (s *Server) writeErr(w http.ResponseWriter, title string, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Errorf("%s: %v", title, err)
	}
	s.writeError(w, status, title, err.Error())
}

// HTTPStatus maps the error taxonomy to HTTP status codes: validation
// errors are the caller's fault, generation errors mean the request was
// understood but produced nothing to export.
func HTTPStatus(err error) int {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	var ge *core.GenerationError
	if errors.As(err, &ge) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
