package indexer

import (
	"context"

	"github.com/nusahr/hrsearch/internal/domain"
	"github.com/nusahr/hrsearch/internal/domain/document"
	"github.com/nusahr/hrsearch/internal/domain/entity"
)

// Registry enumerates registered entity types in registration order.
type Registry interface {
	All() []entity.Registration
}

// Extractor produces documents for one registered entity.
type Extractor interface {
	Extract(ctx context.Context, cfg entity.Config, provider entity.Provider) ([]document.Document, error)
}

// BatchEmbedder vectorizes document texts for the vector index.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// VersionSource issues monotonically increasing index versions. Backed by the
// cache store so that a new version implicitly invalidates all cached
// responses of prior versions.
type VersionSource interface {
	NextVersion(ctx context.Context) (int64, error)
}
