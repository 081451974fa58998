package api

import (
	"time"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/filter"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ResultsResponse is one page of a search or browse result.
type ResultsResponse struct {
	Query      string          `json:"query,omitempty"`
	Kind       core.ResultKind `json:"kind"`
	Scored     bool            `json:"scored"`
	Filters    filter.Criteria `json:"filters"`
	Matches    []core.Match    `json:"matches"`
	Count      int             `json:"count"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalPages int             `json:"total_pages"`
	HasMore    bool            `json:"has_more"`
}

type PackageResponse struct {
	Package core.Record `json:"package"`
}

type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Records   int       `json:"records"`
}
