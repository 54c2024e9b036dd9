package health

import (
	"context"

	"github.com/nusahr/hrsearch/internal/index"
)

// CachePinger checks cache backend availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// SnapshotSource reads the active index snapshot.
type SnapshotSource interface {
	Current() *index.Snapshot
}
