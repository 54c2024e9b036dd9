package hrsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/nusahr/hrsearch/internal/domain/search/filter"
	"github.com/nusahr/hrsearch/internal/domain/search/request"
	"github.com/nusahr/hrsearch/internal/domain/search/searchtype"
)

// Search types selectable via SearchOptions.
const (
	SearchTypeSemantic = "semantic"
	SearchTypeKeyword  = "keyword"
)

// SearchOptions narrows and tunes a search. The zero value runs both methods
// over all entity types with default limits.
type SearchOptions struct {
	// EntityTypes restricts results to these entity types. Empty allows all.
	EntityTypes []string

	// DateFrom and DateTo bound the record timestamp, inclusive.
	DateFrom *time.Time
	DateTo   *time.Time

	// MinScore drops fused results below this combined score.
	MinScore float64

	// MaxResults caps the result list. Defaults to 50, max 200.
	MaxResults int

	// SearchTypes selects the retrieval methods. Defaults to both.
	SearchTypes []string
}

// SearchResult is one fused, ranked document.
type SearchResult struct {
	EntityType    string
	ID            string
	DisplayFields map[string]string
	URL           string
	CreatedAt     time.Time
	CombinedScore float64
	SearchMethods []string
	FinalRank     int
}

// SearchResponse is the full outcome of one search.
type SearchResponse struct {
	Query             string
	ExpandedQuery     string
	TotalResults      int
	Results           []SearchResult
	Suggestions       []string
	SemanticAvailable bool
	KeywordAvailable  bool
	SemanticUsed      bool
	KeywordUsed       bool
	IndexSize         int
	IndexVersion      int64
}

// RebuildSummary reports the outcome of an index rebuild.
type RebuildSummary struct {
	BuildID            string
	IndexVersion       int64
	TotalDocuments     int
	IndexedEntityTypes []string
	RebuildTime        time.Duration
}

// Search runs a hybrid search over the active index snapshot.
func (e *Engine) Search(ctx context.Context, q string, opts *SearchOptions) (*SearchResponse, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	f, err := filter.New(opts.EntityTypes, opts.DateFrom, opts.DateTo, opts.MinScore)
	if err != nil {
		return nil, fmt.Errorf("hrsearch: filters: %w", err)
	}

	types := make([]searchtype.Type, len(opts.SearchTypes))
	for i, t := range opts.SearchTypes {
		types[i] = searchtype.Type(t)
	}

	req, err := request.New(q, f, opts.MaxResults, types)
	if err != nil {
		return nil, fmt.Errorf("hrsearch: %w", err)
	}

	resp, err := e.search.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("hrsearch: search: %w", err)
	}

	results := make([]SearchResult, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		doc := r.Document()
		methods := make([]string, len(r.SearchMethods()))
		for j, m := range r.SearchMethods() {
			methods[j] = string(m)
		}
		results[i] = SearchResult{
			EntityType:    doc.EntityType(),
			ID:            doc.ID(),
			DisplayFields: doc.DisplayFields(),
			URL:           doc.URL(),
			CreatedAt:     doc.CreatedAt(),
			CombinedScore: r.CombinedScore(),
			SearchMethods: methods,
			FinalRank:     r.FinalRank(),
		}
	}

	return &SearchResponse{
		Query:             resp.Query,
		ExpandedQuery:     resp.ExpandedQuery,
		TotalResults:      resp.TotalResults,
		Results:           results,
		Suggestions:       resp.Suggestions,
		SemanticAvailable: resp.Metadata.SemanticAvailable,
		KeywordAvailable:  resp.Metadata.KeywordAvailable,
		SemanticUsed:      resp.Metadata.SemanticUsed,
		KeywordUsed:       resp.Metadata.KeywordUsed,
		IndexSize:         resp.Metadata.IndexSize,
		IndexVersion:      resp.Metadata.IndexVersion,
	}, nil
}
