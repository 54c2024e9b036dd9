// Package index holds the immutable search snapshot and the manager that
// publishes it atomically, keeping rebuilds from blocking reads.
package index

import (
	"sync/atomic"
	"time"

	"github.com/nusahr/hrsearch/internal/domain/document"
	"github.com/nusahr/hrsearch/internal/index/keyword"
	"github.com/nusahr/hrsearch/internal/index/vector"
)

// Snapshot is one fully built generation of the search indexes. Immutable
// after publication; reads never observe a partially built snapshot.
type Snapshot struct {
	Version      int64
	BuildID      string
	BuiltAt      time.Time
	Documents    map[string]document.Document // by composite key
	EntityTypes  []string
	EntityCounts map[string]int

	Vector  *vector.Index
	Keyword *keyword.Index

	// Capability flags computed at build time; fusion branches on these
	// instead of nil checks.
	SemanticAvailable bool
	KeywordAvailable  bool
}

// Size returns the total indexed document count.
func (s *Snapshot) Size() int { return len(s.Documents) }

// Document looks up a document by composite key.
func (s *Snapshot) Document(key string) (document.Document, bool) {
	d, ok := s.Documents[key]
	return d, ok
}

// Manager owns the active snapshot reference. Rebuilds construct a shadow
// snapshot and publish it with a single atomic pointer swap.
type Manager struct {
	active atomic.Pointer[Snapshot]
}

// NewManager creates a manager with an empty unpublished state.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the active snapshot, or nil before the first rebuild.
func (m *Manager) Current() *Snapshot {
	return m.active.Load()
}

// Publish atomically replaces the active snapshot.
func (m *Manager) Publish(s *Snapshot) {
	m.active.Store(s)
}
