package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/browse", s.HandleBrowse)
	mux.HandleFunc("GET /api/packages/{code}", s.HandlePackage)
	mux.HandleFunc("GET /api/suggest", s.HandleSuggest)
	mux.HandleFunc("GET /api/stats", s.HandleStats)
	mux.HandleFunc("GET /api/export/{format}", s.HandleExport)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
