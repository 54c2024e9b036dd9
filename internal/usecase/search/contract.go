package search

import (
	"context"

	"github.com/nusahr/hrsearch/internal/domain"
	"github.com/nusahr/hrsearch/internal/domain/search/response"
	"github.com/nusahr/hrsearch/internal/index"
)

// SnapshotSource provides the active index snapshot.
type SnapshotSource interface {
	Current() *index.Snapshot
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ResponseCache memoizes full search responses by index version and request
// fingerprint. Best-effort: both operations fail soft.
type ResponseCache interface {
	Get(ctx context.Context, version int64, fingerprint string) (*response.Response, bool)
	Put(ctx context.Context, version int64, fingerprint string, resp *response.Response)
}

// QueryExpander rewrites a raw query for recall.
type QueryExpander interface {
	Expand(raw string) string
	MatchedTerms(raw string) []string
	Synonyms(term string) []string
}
