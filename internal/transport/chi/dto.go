package chi

import (
	"time"

	"github.com/nusahr/hrsearch/internal/domain/search/response"
	"github.com/nusahr/hrsearch/internal/domain/search/searchtype"
	"github.com/nusahr/hrsearch/internal/usecase/indexer"
)

// Wire shapes for the hand-written JSON API.

type searchRequestDTO struct {
	Query       string            `json:"query"`
	Filters     *searchFiltersDTO `json:"filters,omitempty"`
	MaxResults  int               `json:"max_results,omitempty"`
	SearchTypes []string          `json:"search_types,omitempty"`
}

type searchFiltersDTO struct {
	Models   []string   `json:"models,omitempty"` // entity-type allow-list
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	MinScore float64    `json:"min_score,omitempty"`
}

type searchResponseDTO struct {
	Query         string            `json:"query"`
	ExpandedQuery string            `json:"expanded_query"`
	TotalResults  int               `json:"total_results"`
	Results       []searchResultDTO `json:"results"`
	Suggestions   []string          `json:"suggestions"`
	Metadata      metadataDTO       `json:"search_metadata"`
}

type searchResultDTO struct {
	EntityType    string            `json:"entity_type"`
	ID            string            `json:"id"`
	DisplayFields map[string]string `json:"display_fields,omitempty"`
	URL           string            `json:"url,omitempty"`
	CreatedAt     *time.Time        `json:"created_at,omitempty"`
	CombinedScore float64           `json:"combined_score"`
	SearchMethods []string          `json:"search_methods"`
	FinalRank     int               `json:"final_rank"`
}

type metadataDTO struct {
	SearchTypes       []string  `json:"search_types"`
	SemanticAvailable bool      `json:"semantic_available"`
	KeywordAvailable  bool      `json:"keyword_available"`
	SemanticUsed      bool      `json:"semantic_used"`
	KeywordUsed       bool      `json:"keyword_used"`
	IndexSize         int       `json:"index_size"`
	IndexVersion      int64     `json:"index_version"`
	CacheHit          bool      `json:"cache_hit"`
	Timestamp         time.Time `json:"timestamp"`
}

type rebuildResponseDTO struct {
	Status             string   `json:"status"`
	BuildID            string   `json:"build_id"`
	IndexVersion       int64    `json:"index_version"`
	TotalDocuments     int      `json:"total_documents"`
	IndexedEntityTypes []string `json:"indexed_entity_types"`
	RebuildTimeSec     float64  `json:"rebuild_time"`
}

type errorResponseDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned across the boundary.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeRebuildConflict  = "rebuild_in_progress"
	codeInternalError    = "internal_error"
)

func responseToDTO(resp *response.Response) searchResponseDTO {
	results := make([]searchResultDTO, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		doc := r.Document()
		var createdAt *time.Time
		if t := doc.CreatedAt(); !t.IsZero() {
			createdAt = &t
		}
		results[i] = searchResultDTO{
			EntityType:    doc.EntityType(),
			ID:            doc.ID(),
			DisplayFields: doc.DisplayFields(),
			URL:           doc.URL(),
			CreatedAt:     createdAt,
			CombinedScore: r.CombinedScore(),
			SearchMethods: typesToStrings(r.SearchMethods()),
			FinalRank:     r.FinalRank(),
		}
	}

	return searchResponseDTO{
		Query:         resp.Query,
		ExpandedQuery: resp.ExpandedQuery,
		TotalResults:  resp.TotalResults,
		Results:       results,
		Suggestions:   resp.Suggestions,
		Metadata: metadataDTO{
			SearchTypes:       typesToStrings(resp.Metadata.SearchTypes),
			SemanticAvailable: resp.Metadata.SemanticAvailable,
			KeywordAvailable:  resp.Metadata.KeywordAvailable,
			SemanticUsed:      resp.Metadata.SemanticUsed,
			KeywordUsed:       resp.Metadata.KeywordUsed,
			IndexSize:         resp.Metadata.IndexSize,
			IndexVersion:      resp.Metadata.IndexVersion,
			CacheHit:          resp.Metadata.CacheHit,
			Timestamp:         resp.Metadata.Timestamp,
		},
	}
}

func summaryToDTO(s indexer.Summary) rebuildResponseDTO {
	return rebuildResponseDTO{
		Status:             s.Status,
		BuildID:            s.BuildID,
		IndexVersion:       s.IndexVersion,
		TotalDocuments:     s.TotalDocuments,
		IndexedEntityTypes: s.IndexedEntityTypes,
		RebuildTimeSec:     s.RebuildTime.Seconds(),
	}
}

func typesToStrings(types []searchtype.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func stringsToTypes(ss []string) []searchtype.Type {
	out := make([]searchtype.Type, len(ss))
	for i, s := range ss {
		out[i] = searchtype.Type(s)
	}
	return out
}
