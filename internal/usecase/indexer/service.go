// Package indexer rebuilds the search indexes from registered entity sources.
package indexer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/domain"
	"github.com/nusahr/hrsearch/internal/domain/document"
	"github.com/nusahr/hrsearch/internal/index"
	"github.com/nusahr/hrsearch/internal/index/keyword"
	"github.com/nusahr/hrsearch/internal/index/vector"
	"github.com/nusahr/hrsearch/internal/metrics"
)

// embedBatchSize bounds texts per provider call during index builds.
const embedBatchSize = 64

// Options tunes index construction.
type Options struct {
	MinSimilarity float64
	VocabularyCap int
}

// Summary reports the outcome of one rebuild.
type Summary struct {
	Status             string
	BuildID            string
	IndexVersion       int64
	TotalDocuments     int
	IndexedEntityTypes []string
	RebuildTime        time.Duration
}

// Service builds snapshots and publishes them through the index manager.
// Rebuilds never block concurrent searches: reads keep serving the previous
// snapshot until the atomic swap.
type Service struct {
	registry  Registry
	extractor Extractor
	embedder  BatchEmbedder
	manager   *index.Manager
	versions  VersionSource
	opts      Options
	logger    *zap.Logger
	now       func() time.Time

	localVersion int64
	rebuilding   atomic.Bool
}

// New creates an indexer service. embedder may be nil: the snapshot is then
// built keyword-only with SemanticAvailable=false. versions may be nil: a
// process-local counter is used instead.
func New(
	registry Registry,
	extractor Extractor,
	embedder BatchEmbedder,
	manager *index.Manager,
	versions VersionSource,
	opts Options,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry:  registry,
		extractor: extractor,
		embedder:  embedder,
		manager:   manager,
		versions:  versions,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Rebuild extracts all registered entities, builds fresh vector and keyword
// indexes into a shadow snapshot, and publishes it atomically. Idempotent and
// safe to call repeatedly; a rebuild already in flight is rejected with
// domain.ErrRebuildInProgress rather than queued.
func (s *Service) Rebuild(ctx context.Context) (Summary, error) {
	if !s.rebuilding.CompareAndSwap(false, true) {
		metrics.IndexRebuildsTotal.WithLabelValues("conflict").Inc()
		return Summary{}, domain.ErrRebuildInProgress
	}
	defer s.rebuilding.Store(false)

	start := s.now()
	buildID := uuid.NewString()
	log := s.logger.With(zap.String("build_id", buildID))

	var (
		allDocs      []document.Document
		entityTypes  []string
		entityCounts = make(map[string]int)
	)
	for _, reg := range s.registry.All() {
		name := reg.Config.Name()
		docs, err := s.extractor.Extract(ctx, reg.Config, reg.Provider)
		if err != nil {
			// Partial-failure tolerant: one broken source does not abort the build.
			log.Warn("entity extraction failed, skipping entity",
				zap.String("entity_type", name),
				zap.Error(err),
			)
			continue
		}
		entityTypes = append(entityTypes, name)
		entityCounts[name] = len(docs)
		allDocs = append(allDocs, docs...)
	}

	snap := &index.Snapshot{
		BuildID:      buildID,
		BuiltAt:      s.now().UTC(),
		Documents:    make(map[string]document.Document, len(allDocs)),
		EntityTypes:  entityTypes,
		EntityCounts: entityCounts,
	}
	keys := make([]string, len(allDocs))
	for i := range allDocs {
		keys[i] = allDocs[i].Key()
		snap.Documents[allDocs[i].Key()] = allDocs[i]
	}

	snap.Keyword, snap.KeywordAvailable = s.buildKeyword(allDocs, log)
	snap.Vector, snap.SemanticAvailable = s.buildVector(ctx, keys, allDocs, log)
	snap.Version = s.nextVersion(ctx, log)

	s.manager.Publish(snap)
	for name, n := range entityCounts {
		metrics.IndexDocuments.WithLabelValues(name).Set(float64(n))
	}

	elapsed := s.now().Sub(start)
	metrics.IndexRebuildDuration.Observe(elapsed.Seconds())
	metrics.IndexRebuildsTotal.WithLabelValues("success").Inc()

	log.Info("index rebuilt",
		zap.Int64("version", snap.Version),
		zap.Int("total_documents", len(allDocs)),
		zap.Strings("entity_types", entityTypes),
		zap.Bool("semantic_available", snap.SemanticAvailable),
		zap.Bool("keyword_fallback", snap.Keyword.UsesFallback()),
		zap.Duration("rebuild_time", elapsed),
	)

	return Summary{
		Status:             "success",
		BuildID:            buildID,
		IndexVersion:       snap.Version,
		TotalDocuments:     len(allDocs),
		IndexedEntityTypes: entityTypes,
		RebuildTime:        elapsed,
	}, nil
}

// buildKeyword fits the lexical index. Always available: the overlap fallback
// covers a failed vectorizer fit.
func (s *Service) buildKeyword(docs []document.Document, log *zap.Logger) (*keyword.Index, bool) {
	kwDocs := make([]keyword.Doc, len(docs))
	for i := range docs {
		kwDocs[i] = keyword.Doc{
			Key:       docs[i].Key(),
			Text:      docs[i].SearchableText(),
			BoostText: boostText(&docs[i]),
		}
	}

	ix := keyword.New(s.opts.MinSimilarity, s.opts.VocabularyCap)
	if err := ix.Build(kwDocs); err != nil {
		log.Warn("keyword index build failed", zap.Error(err))
		return keyword.NewOverlap(s.opts.MinSimilarity), len(docs) > 0
	}
	if ix.UsesFallback() {
		log.Warn("TF-IDF fit failed, keyword index using overlap fallback")
	}
	return ix, len(docs) > 0
}

// buildVector embeds every document and builds the vector index. Fails soft:
// an unavailable embedding backend leaves the index empty and semantic search
// disabled for this snapshot.
func (s *Service) buildVector(
	ctx context.Context, keys []string, docs []document.Document, log *zap.Logger,
) (*vector.Index, bool) {
	ix := vector.New(s.opts.MinSimilarity)
	if s.embedder == nil || len(docs) == 0 {
		return ix, false
	}

	vectors := make([][]float32, 0, len(docs))
	for lo := 0; lo < len(docs); lo += embedBatchSize {
		hi := lo + embedBatchSize
		if hi > len(docs) {
			hi = len(docs)
		}
		texts := make([]string, hi-lo)
		for i := lo; i < hi; i++ {
			texts[i-lo] = docs[i].SearchableText()
		}
		res, err := s.embedder.BatchEmbed(ctx, texts)
		if err != nil {
			log.Warn("document embedding failed, semantic search disabled for this snapshot",
				zap.Int("embedded", len(vectors)),
				zap.Error(err),
			)
			return vector.New(s.opts.MinSimilarity), false
		}
		vectors = append(vectors, res.Embeddings...)
	}

	if err := ix.Build(keys, vectors); err != nil {
		log.Warn("vector index build failed, semantic search disabled", zap.Error(err))
		return vector.New(s.opts.MinSimilarity), false
	}
	return ix, true
}

// nextVersion obtains the next index version, falling back to a process-local
// counter when the shared source is unavailable.
func (s *Service) nextVersion(ctx context.Context, log *zap.Logger) int64 {
	if s.versions != nil {
		if v, err := s.versions.NextVersion(ctx); err == nil {
			s.localVersion = v
			return v
		} else {
			log.Warn("version source unavailable, using local counter", zap.Error(err))
		}
	}
	s.localVersion++
	return s.localVersion
}

// boostText concatenates the display values of a document's boost fields.
func boostText(d *document.Document) string {
	out := ""
	display := d.DisplayFields()
	for _, name := range d.BoostFields() {
		if v, ok := display[name]; ok && v != "" {
			if out != "" {
				out += " "
			}
			out += v
		}
	}
	return out
}
