package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/domain/search/request"
	"github.com/nusahr/hrsearch/internal/domain/search/response"
	"github.com/nusahr/hrsearch/internal/domain/search/result"
	"github.com/nusahr/hrsearch/internal/domain/search/searchtype"
	"github.com/nusahr/hrsearch/internal/index"
	"github.com/nusahr/hrsearch/internal/logger"
	"github.com/nusahr/hrsearch/internal/metrics"
)

// Weights configures the fusion contribution of each retrieval method.
type Weights struct {
	Semantic float64
	Keyword  float64
}

// DefaultWeights favor semantic similarity over lexical overlap.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.7, Keyword: 0.3}
}

// Service executes hybrid searches over the active snapshot.
type Service struct {
	snapshots SnapshotSource
	embedder  Embedder
	expander  QueryExpander
	cache     ResponseCache
	weights   Weights
	now       func() time.Time
}

// New creates a search service. embedder and cache may be nil: semantic
// retrieval and caching then degrade gracefully.
func New(snapshots SnapshotSource, embedder Embedder, expander QueryExpander, cache ResponseCache) *Service {
	return &Service{
		snapshots: snapshots,
		embedder:  embedder,
		expander:  expander,
		cache:     cache,
		weights:   DefaultWeights(),
		now:       time.Now,
	}
}

// WithWeights overrides the fusion weights.
func (s *Service) WithWeights(w Weights) *Service {
	if w.Semantic > 0 {
		s.weights.Semantic = w.Semantic
	}
	if w.Keyword > 0 {
		s.weights.Keyword = w.Keyword
	}
	return s
}

// WithClock overrides the time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search runs the full pipeline: expansion, per-method retrieval, weighted
// fusion, filtering, ranking, suggestions. A missing or empty index yields a
// valid zero-result response, never an error; only request validation fails.
func (s *Service) Search(ctx context.Context, req request.Request) (response.Response, error) {
	log := logger.FromContext(ctx)
	expanded := s.expander.Expand(req.Query())
	snap := s.snapshots.Current()

	meta := response.Metadata{
		SearchTypes: req.SearchTypes(),
		Timestamp:   s.now().UTC(),
	}
	if snap == nil || snap.Size() == 0 {
		return response.Empty(req.Query(), expanded, meta), nil
	}

	meta.SemanticAvailable = snap.SemanticAvailable && s.embedder != nil
	meta.KeywordAvailable = snap.KeywordAvailable
	meta.IndexSize = snap.Size()
	meta.IndexVersion = snap.Version

	fingerprint := req.Fingerprint()
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, snap.Version, fingerprint); ok {
			metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
			cached.Metadata.CacheHit = true
			return *cached, nil
		}
		metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
	}

	var candidates []result.Candidate
	if req.WantsSemantic() && meta.SemanticAvailable {
		hits, ok := s.searchSemantic(ctx, snap, expanded, req.MaxResults())
		meta.SemanticUsed = ok
		candidates = append(candidates, hits...)
	}
	if req.WantsKeyword() && meta.KeywordAvailable {
		candidates = append(candidates, s.searchKeyword(snap, expanded, req.MaxResults())...)
		meta.KeywordUsed = true
	}

	ranked := fuse(candidates, s.weights, req.Filters(), req.MaxResults())

	resp := response.Response{
		Query:         req.Query(),
		ExpandedQuery: expanded,
		TotalResults:  len(ranked),
		Results:       ranked,
		Suggestions:   s.suggestions(req.Query(), ranked),
		Metadata:      meta,
	}

	if s.cache != nil {
		s.cache.Put(ctx, snap.Version, fingerprint, &resp)
	}

	log.Debug("search completed",
		zap.String("query", req.Query()),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(ranked)),
		zap.Bool("semantic_used", meta.SemanticUsed),
		zap.Bool("keyword_used", meta.KeywordUsed),
	)

	return resp, nil
}

// searchSemantic embeds the expanded query and queries the vector index.
// Any failure degrades to the remaining methods instead of surfacing.
func (s *Service) searchSemantic(
	ctx context.Context, snap *index.Snapshot, expanded string, k int,
) ([]result.Candidate, bool) {
	log := logger.FromContext(ctx)
	start := time.Now()

	emb, err := s.embedder.Embed(ctx, expanded)
	if err != nil {
		log.Warn("query embedding failed, skipping semantic search", zap.Error(err))
		return nil, false
	}

	hits, err := snap.Vector.Search(emb.Embedding, k)
	if err != nil {
		log.Warn("vector search failed, skipping semantic search", zap.Error(err))
		return nil, false
	}

	metrics.SearchMethodDuration.WithLabelValues(string(searchtype.Semantic)).
		Observe(time.Since(start).Seconds())

	candidates := make([]result.Candidate, 0, len(hits))
	for _, h := range hits {
		doc, ok := snap.Document(h.Key)
		if !ok {
			continue
		}
		candidates = append(candidates,
			result.NewCandidate(doc, h.Score, searchtype.Semantic, h.Rank))
	}
	return candidates, true
}

// searchKeyword queries the lexical index (TF-IDF or its overlap fallback).
func (s *Service) searchKeyword(snap *index.Snapshot, expanded string, k int) []result.Candidate {
	start := time.Now()
	hits := snap.Keyword.Search(expanded, k)
	metrics.SearchMethodDuration.WithLabelValues(string(searchtype.Keyword)).
		Observe(time.Since(start).Seconds())

	candidates := make([]result.Candidate, 0, len(hits))
	for _, h := range hits {
		doc, ok := snap.Document(h.Key)
		if !ok {
			continue
		}
		candidates = append(candidates,
			result.NewCandidate(doc, h.Score, searchtype.Keyword, h.Rank))
	}
	return candidates
}

// suggestions delegates to the generator with the expander's synonym view.
func (s *Service) suggestions(rawQuery string, ranked []result.Ranked) []string {
	return Suggestions(rawQuery, s.expander, ranked)
}

// queryTermSet returns the lowercased word set of a query.
func queryTermSet(q string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(q)) {
		set[w] = true
	}
	return set
}
