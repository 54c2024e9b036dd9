package request

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nusahr/hrsearch/internal/domain"
	"github.com/nusahr/hrsearch/internal/domain/search/filter"
	"github.com/nusahr/hrsearch/internal/domain/search/searchtype"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength    = 1024
	DefaultMaxResults = 50
	MaxMaxResults     = 200
)

// Request is a validated search query.
type Request struct {
	query       string
	filters     filter.Filter
	maxResults  int
	searchTypes []searchtype.Type
}

// New validates and normalizes search parameters.
// Defaults: maxResults=50, searchTypes=[semantic, keyword].
// An empty or whitespace-only query fails with domain.ErrValidation.
func New(
	query string,
	filters filter.Filter,
	maxResults int,
	searchTypes []searchtype.Type,
) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, domain.NewValidationError("query", "must not be empty")
	}
	if len(query) > MaxQueryLength {
		return Request{}, domain.NewValidationError(
			"query", fmt.Sprintf("too long (max %d chars)", MaxQueryLength))
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxMaxResults {
		maxResults = MaxMaxResults
	}
	for _, t := range searchTypes {
		if !t.IsValid() {
			return Request{}, domain.NewValidationError(
				"search_types", fmt.Sprintf("unsupported search type %q", t))
		}
	}

	return Request{
		query:       query,
		filters:     filters,
		maxResults:  maxResults,
		searchTypes: searchtype.Normalize(searchTypes),
	}, nil
}

// Query returns the raw search query text.
func (r *Request) Query() string { return r.query }

// Filters returns the result filter.
func (r *Request) Filters() filter.Filter { return r.filters }

// MaxResults returns the maximum results to return.
func (r *Request) MaxResults() int { return r.maxResults }

// SearchTypes returns the normalized retrieval method set.
func (r *Request) SearchTypes() []searchtype.Type { return r.searchTypes }

// WantsSemantic reports whether semantic retrieval was requested.
func (r *Request) WantsSemantic() bool {
	return searchtype.Contains(r.searchTypes, searchtype.Semantic)
}

// WantsKeyword reports whether keyword retrieval was requested.
func (r *Request) WantsKeyword() bool {
	return searchtype.Contains(r.searchTypes, searchtype.Keyword)
}

// Fingerprint returns a deterministic hash of the full request, so two
// semantically different requests never share a cache entry.
func (r *Request) Fingerprint() string {
	types := make([]string, len(r.searchTypes))
	for i, t := range r.searchTypes {
		types[i] = string(t)
	}
	canonical := fmt.Sprintf("q=%s|%s|max=%d|types=%s",
		r.query, r.filters.Canonical(), r.maxResults, strings.Join(types, ","))
	h := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(h[:])
}
