package searchcache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nusahr/hrsearch/internal/domain/document"
	"github.com/nusahr/hrsearch/internal/domain/search/response"
	"github.com/nusahr/hrsearch/internal/domain/search/result"
	"github.com/nusahr/hrsearch/internal/domain/search/searchtype"
)

// Wire representation of a cached response. Domain value objects hide their
// fields behind getters, so caching round-trips through these DTOs.

type responseDTO struct {
	Query         string      `json:"query"`
	ExpandedQuery string      `json:"expanded_query"`
	TotalResults  int         `json:"total_results"`
	Results       []rankedDTO `json:"results"`
	Suggestions   []string    `json:"suggestions"`
	Metadata      metadataDTO `json:"metadata"`
}

type metadataDTO struct {
	SearchTypes       []string  `json:"search_types"`
	SemanticAvailable bool      `json:"semantic_available"`
	KeywordAvailable  bool      `json:"keyword_available"`
	SemanticUsed      bool      `json:"semantic_used"`
	KeywordUsed       bool      `json:"keyword_used"`
	IndexSize         int       `json:"index_size"`
	IndexVersion      int64     `json:"index_version"`
	Timestamp         time.Time `json:"timestamp"`
}

type rankedDTO struct {
	EntityType     string            `json:"entity_type"`
	ID             string            `json:"id"`
	SearchableText string            `json:"searchable_text"`
	DisplayFields  map[string]string `json:"display_fields,omitempty"`
	Weight         float64           `json:"weight"`
	BoostFields    []string          `json:"boost_fields,omitempty"`
	CreatedAt      *time.Time        `json:"created_at,omitempty"`
	URL            string            `json:"url,omitempty"`
	CombinedScore  float64           `json:"combined_score"`
	SearchMethods  []string          `json:"search_methods"`
	FinalRank      int               `json:"final_rank"`
}

func encodeResponse(resp *response.Response) ([]byte, error) {
	dto := responseDTO{
		Query:         resp.Query,
		ExpandedQuery: resp.ExpandedQuery,
		TotalResults:  resp.TotalResults,
		Results:       make([]rankedDTO, len(resp.Results)),
		Suggestions:   resp.Suggestions,
		Metadata: metadataDTO{
			SearchTypes:       typesToStrings(resp.Metadata.SearchTypes),
			SemanticAvailable: resp.Metadata.SemanticAvailable,
			KeywordAvailable:  resp.Metadata.KeywordAvailable,
			SemanticUsed:      resp.Metadata.SemanticUsed,
			KeywordUsed:       resp.Metadata.KeywordUsed,
			IndexSize:         resp.Metadata.IndexSize,
			IndexVersion:      resp.Metadata.IndexVersion,
			Timestamp:         resp.Metadata.Timestamp,
		},
	}
	for i := range resp.Results {
		r := &resp.Results[i]
		doc := r.Document()
		var createdAt *time.Time
		if t := doc.CreatedAt(); !t.IsZero() {
			createdAt = &t
		}
		dto.Results[i] = rankedDTO{
			EntityType:     doc.EntityType(),
			ID:             doc.ID(),
			SearchableText: doc.SearchableText(),
			DisplayFields:  doc.DisplayFields(),
			Weight:         doc.Weight(),
			BoostFields:    doc.BoostFields(),
			CreatedAt:      createdAt,
			URL:            doc.URL(),
			CombinedScore:  r.CombinedScore(),
			SearchMethods:  typesToStrings(r.SearchMethods()),
			FinalRank:      r.FinalRank(),
		}
	}
	return json.Marshal(dto)
}

func decodeResponse(data []byte) (*response.Response, error) {
	var dto responseDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal cached response: %w", err)
	}

	results := make([]result.Ranked, 0, len(dto.Results))
	for _, r := range dto.Results {
		var createdAt time.Time
		if r.CreatedAt != nil {
			createdAt = *r.CreatedAt
		}
		doc, err := document.New(
			r.EntityType, r.ID, r.SearchableText,
			r.DisplayFields, r.Weight, r.BoostFields, createdAt, r.URL,
		)
		if err != nil {
			return nil, fmt.Errorf("rebuild cached document: %w", err)
		}
		results = append(results, result.NewRanked(
			doc, r.CombinedScore, stringsToTypes(r.SearchMethods), r.FinalRank,
		))
	}

	return &response.Response{
		Query:         dto.Query,
		ExpandedQuery: dto.ExpandedQuery,
		TotalResults:  dto.TotalResults,
		Results:       results,
		Suggestions:   dto.Suggestions,
		Metadata: response.Metadata{
			SearchTypes:       stringsToTypes(dto.Metadata.SearchTypes),
			SemanticAvailable: dto.Metadata.SemanticAvailable,
			KeywordAvailable:  dto.Metadata.KeywordAvailable,
			SemanticUsed:      dto.Metadata.SemanticUsed,
			KeywordUsed:       dto.Metadata.KeywordUsed,
			IndexSize:         dto.Metadata.IndexSize,
			IndexVersion:      dto.Metadata.IndexVersion,
			Timestamp:         dto.Metadata.Timestamp,
		},
	}, nil
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
