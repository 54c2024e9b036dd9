// Package response defines the search response aggregate persisted across the
// service boundary.
package response

import (
	"time"

	"github.com/nusahr/hrsearch/internal/domain/search/result"
	"github.com/nusahr/hrsearch/internal/domain/search/searchtype"
)

// Metadata reports which retrieval methods actually ran and the index state
// at serving time. Callers distinguish "no results" from "no capability" here.
type Metadata struct {
	SearchTypes       []searchtype.Type
	SemanticAvailable bool
	KeywordAvailable  bool
	SemanticUsed      bool
	KeywordUsed       bool
	IndexSize         int
	IndexVersion      int64
	CacheHit          bool
	Timestamp         time.Time
}

// Response is the complete outcome of one search call.
type Response struct {
	Query         string
	ExpandedQuery string
	TotalResults  int
	Results       []result.Ranked
	Suggestions   []string
	Metadata      Metadata
}

// Empty returns a structurally valid zero-result response. Returned instead of
// an error when no index is usable.
func Empty(query, expandedQuery string, meta Metadata) Response {
	return Response{
		Query:         query,
		ExpandedQuery: expandedQuery,
		TotalResults:  0,
		Results:       []result.Ranked{},
		Suggestions:   []string{},
		Metadata:      meta,
	}
}
