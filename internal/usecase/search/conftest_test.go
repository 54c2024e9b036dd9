package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nusahr/hrsearch/internal/domain"
	"github.com/nusahr/hrsearch/internal/domain/document"
	"github.com/nusahr/hrsearch/internal/domain/search/response"
	"github.com/nusahr/hrsearch/internal/index"
	"github.com/nusahr/hrsearch/internal/index/keyword"
	"github.com/nusahr/hrsearch/internal/index/vector"
)

// --- Mocks ---

type mockSnapshots struct {
	snap *index.Snapshot
}

func (m *mockSnapshots) Current() *index.Snapshot { return m.snap }

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockExpander struct {
	expanded string
	matched  []string
	synonyms map[string][]string
}

func (m *mockExpander) Expand(raw string) string {
	if m.expanded != "" {
		return m.expanded
	}
	return raw
}

func (m *mockExpander) MatchedTerms(_ string) []string { return m.matched }

func (m *mockExpander) Synonyms(term string) []string { return m.synonyms[term] }

type mockCache struct {
	entries map[string]*response.Response
	gets    int
	puts    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]*response.Response)}
}

func (m *mockCache) Get(_ context.Context, version int64, fingerprint string) (*response.Response, bool) {
	m.gets++
	resp, ok := m.entries[cacheKey(version, fingerprint)]
	return resp, ok
}

func (m *mockCache) Put(_ context.Context, version int64, fingerprint string, resp *response.Response) {
	m.puts++
	m.entries[cacheKey(version, fingerprint)] = resp
}

func cacheKey(version int64, fingerprint string) string {
	return fmt.Sprintf("%d:%s", version, fingerprint)
}

// --- Fixtures ---

func makeDoc(t *testing.T, entityType, id, text string, weight float64) document.Document {
	t.Helper()
	doc, err := document.New(entityType, id, text, nil, weight, nil, time.Time{}, "")
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return doc
}

func makeDocAt(t *testing.T, entityType, id, text string, createdAt time.Time) document.Document {
	t.Helper()
	doc, err := document.New(entityType, id, text, nil, 1.0, nil, createdAt, "")
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return doc
}

// makeSnapshot builds a searchable snapshot over the given documents, with a
// keyword index always and a one-hot vector index when dim > 0.
func makeSnapshot(t *testing.T, docs []document.Document, dim int) *index.Snapshot {
	t.Helper()

	documents := make(map[string]document.Document, len(docs))
	kwDocs := make([]keyword.Doc, 0, len(docs))
	keys := make([]string, 0, len(docs))
	vectors := make([][]float32, 0, len(docs))

	for i, d := range docs {
		documents[d.Key()] = d
		kwDocs = append(kwDocs, keyword.Doc{Key: d.Key(), Text: d.SearchableText()})
		if dim > 0 {
			v := make([]float32, dim)
			v[i%dim] = 1
			keys = append(keys, d.Key())
			vectors = append(vectors, v)
		}
	}

	kw := keyword.New(0, 0)
	if err := kw.Build(kwDocs); err != nil {
		t.Fatalf("keyword build: %v", err)
	}

	vec := vector.New(0)
	if dim > 0 {
		if err := vec.Build(keys, vectors); err != nil {
			t.Fatalf("vector build: %v", err)
		}
	}

	return &index.Snapshot{
		Version:           1,
		BuildID:           "test-build",
		BuiltAt:           time.Now(),
		Documents:         documents,
		Vector:            vec,
		Keyword:           kw,
		SemanticAvailable: dim > 0,
		KeywordAvailable:  true,
	}
}
