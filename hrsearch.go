// Package hrsearch is the in-process entry point for the hybrid search
// engine. Callers register entity sources, trigger index rebuilds, and run
// searches without going through the HTTP API.
package hrsearch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/domain"
	"github.com/nusahr/hrsearch/internal/domain/entity"
	"github.com/nusahr/hrsearch/internal/extract"
	"github.com/nusahr/hrsearch/internal/index"
	"github.com/nusahr/hrsearch/internal/query"
	healthuc "github.com/nusahr/hrsearch/internal/usecase/health"
	indexeruc "github.com/nusahr/hrsearch/internal/usecase/indexer"
	searchuc "github.com/nusahr/hrsearch/internal/usecase/search"
)

// Embedder is the public text vectorization contract. Implementations wrap
// whatever embedding provider the caller uses.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Engine is an in-process hybrid search engine.
type Engine struct {
	registry *entity.Registry
	manager  *index.Manager
	indexer  *indexeruc.Service
	search   *searchuc.Service
	health   *healthuc.Service
	logger   *zap.Logger
}

// New creates an Engine. Entities are registered afterwards with
// RegisterEntity; the index is empty until the first RebuildIndex.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, o := range opts {
		o(cfg)
	}

	registry := entity.NewRegistry()
	manager := index.NewManager()

	var domEmbedder domain.Embedder
	var batchEmbedder indexeruc.BatchEmbedder
	if cfg.embedder != nil {
		adapter := &embedderAdapter{inner: cfg.embedder}
		domEmbedder = adapter
		batchEmbedder = adapter
	}

	indexerSvc := indexeruc.New(
		registry, extract.New(cfg.logger), batchEmbedder, manager, nil,
		indexeruc.Options{
			MinSimilarity: cfg.minSimilarity,
			VocabularyCap: cfg.vocabularyCap,
		},
		cfg.logger,
	)

	var qEmbedder searchuc.Embedder
	if domEmbedder != nil {
		qEmbedder = domEmbedder
	}
	searchSvc := searchuc.New(manager, qEmbedder, query.New(cfg.synonyms), nil).
		WithWeights(searchuc.Weights{
			Semantic: cfg.semanticWeight,
			Keyword:  cfg.keywordWeight,
		})

	healthSvc := healthuc.New(nil, nil, manager)

	return &Engine{
		registry: registry,
		manager:  manager,
		indexer:  indexerSvc,
		search:   searchSvc,
		health:   healthSvc,
		logger:   cfg.logger,
	}, nil
}

// RegisterEntity adds an indexable entity type. Registration order determines
// tie-break order in fused results.
func (e *Engine) RegisterEntity(cfg EntityConfig, source RecordSource) error {
	domCfg, err := cfg.toDomain()
	if err != nil {
		return fmt.Errorf("hrsearch: entity config: %w", err)
	}
	if source == nil {
		return fmt.Errorf("hrsearch: entity %q: record source is required", cfg.Name)
	}
	if err := e.registry.Register(domCfg, &sourceAdapter{inner: source}); err != nil {
		return fmt.Errorf("hrsearch: %w", err)
	}
	return nil
}

// RebuildIndex extracts all registered entities and atomically publishes a
// fresh index snapshot. Searches keep using the previous snapshot until the
// new one is published.
func (e *Engine) RebuildIndex(ctx context.Context) (RebuildSummary, error) {
	summary, err := e.indexer.Rebuild(ctx)
	if err != nil {
		return RebuildSummary{}, fmt.Errorf("hrsearch: rebuild: %w", err)
	}
	return RebuildSummary{
		BuildID:            summary.BuildID,
		IndexVersion:       summary.IndexVersion,
		TotalDocuments:     summary.TotalDocuments,
		IndexedEntityTypes: summary.IndexedEntityTypes,
		RebuildTime:        summary.RebuildTime,
	}, nil
}

// IndexSize returns the number of documents in the active snapshot.
func (e *Engine) IndexSize() int {
	snap := e.manager.Current()
	if snap == nil {
		return 0
	}
	return snap.Size()
}

// Ready reports whether the engine has a non-empty published index.
func (e *Engine) Ready(ctx context.Context) bool {
	return e.health.Check(ctx).Status == healthuc.Healthy
}

// embedderAdapter wraps the public Embedder to satisfy internal contracts.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchFallback(ctx, a, texts)
}

// sourceAdapter wraps the public RecordSource to satisfy entity.Provider.
type sourceAdapter struct {
	inner RecordSource
}

func (a *sourceAdapter) FetchRecords(ctx context.Context, limit int) ([]entity.Record, error) {
	records, err := a.inner.FetchRecords(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	out := make([]entity.Record, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out, nil
}
