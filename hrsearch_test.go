package hrsearch

import (
	"context"
	"testing"
)

type memSource struct {
	records []map[string]any
}

func (s *memSource) FetchRecords(_ context.Context, _ int) ([]map[string]any, error) {
	return s.records, nil
}

func policyConfig() EntityConfig {
	return EntityConfig{
		Name:          "policy_document",
		Weight:        0.95,
		SearchFields:  []string{"title", "content"},
		DisplayFields: []string{"title", "category"},
		BoostFields:   []string{"title"},
		TimeField:     "effective_date",
		URLPrefix:     "/policies/",
	}
}

func policySource() *memSource {
	return &memSource{records: []map[string]any{
		{
			"id": float64(1), "title": "Annual Leave Policy",
			"content":  "annual leave entitlement approval and carry over",
			"category": "benefits", "effective_date": "2026-01-01",
		},
		{
			"id": float64(2), "title": "Remote Work Policy",
			"content":  "remote work arrangements equipment and allowances",
			"category": "workplace", "effective_date": "2026-02-01",
		},
	}}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterEntity(policyConfig(), policySource()); err != nil {
		t.Fatalf("RegisterEntity: %v", err)
	}
	return e
}

func TestEngine_RebuildAndSearch(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if e.Ready(ctx) {
		t.Error("engine must not be ready before the first rebuild")
	}

	summary, err := e.RebuildIndex(ctx)
	if err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	if summary.TotalDocuments != 2 {
		t.Errorf("total documents = %d, want 2", summary.TotalDocuments)
	}
	if e.IndexSize() != 2 {
		t.Errorf("index size = %d, want 2", e.IndexSize())
	}
	if !e.Ready(ctx) {
		t.Error("engine must be ready after rebuild")
	}

	resp, err := e.Search(ctx, "annual leave", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.TotalResults == 0 {
		t.Fatal("expected results for annual leave")
	}

	top := resp.Results[0]
	if top.EntityType != "policy_document" || top.ID != "1" {
		t.Errorf("top result = %s:%s, want policy_document:1", top.EntityType, top.ID)
	}
	if top.FinalRank != 1 {
		t.Errorf("final rank = %d, want 1", top.FinalRank)
	}
	if top.URL != "/policies/1" {
		t.Errorf("url = %q, want /policies/1", top.URL)
	}
	if top.DisplayFields["title"] != "Annual Leave Policy" {
		t.Errorf("display title = %q", top.DisplayFields["title"])
	}
	if top.CreatedAt.IsZero() {
		t.Error("created_at must resolve from the time field")
	}
	if resp.SemanticAvailable {
		t.Error("semantic must be unavailable without an embedder")
	}
	if !resp.KeywordUsed {
		t.Error("keyword search must run by default")
	}
}

func TestEngine_SearchBeforeRebuild(t *testing.T) {
	e := newEngine(t)

	resp, err := e.Search(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.TotalResults != 0 {
		t.Errorf("total = %d, want 0 before first rebuild", resp.TotalResults)
	}
}

func TestEngine_SearchOptions(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	if _, err := e.RebuildIndex(ctx); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}

	resp, err := e.Search(ctx, "policy", &SearchOptions{
		EntityTypes: []string{"employee"},
		SearchTypes: []string{SearchTypeKeyword},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.TotalResults != 0 {
		t.Errorf("total = %d, want 0 (no employee entities registered)", resp.TotalResults)
	}
}

func TestEngine_SearchRejectsEmptyQuery(t *testing.T) {
	e := newEngine(t)
	if _, err := e.Search(context.Background(), "  ", nil); err == nil {
		t.Error("empty query must be rejected")
	}
}

func TestEngine_RegisterEntityValidation(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := e.RegisterEntity(EntityConfig{}, policySource()); err == nil {
		t.Error("config without a name must be rejected")
	}
	if err := e.RegisterEntity(policyConfig(), nil); err == nil {
		t.Error("nil record source must be rejected")
	}
	if err := e.RegisterEntity(policyConfig(), policySource()); err != nil {
		t.Fatalf("RegisterEntity: %v", err)
	}
	if err := e.RegisterEntity(policyConfig(), policySource()); err == nil {
		t.Error("duplicate registration must be rejected")
	}
}

func TestEngine_EmbedderEnablesSemantic(t *testing.T) {
	embed := &stubEmbedder{}
	e, err := New(WithEmbedder(embed))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterEntity(policyConfig(), policySource()); err != nil {
		t.Fatalf("RegisterEntity: %v", err)
	}
	ctx := context.Background()
	if _, err := e.RebuildIndex(ctx); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}

	resp, err := e.Search(ctx, "annual leave", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !resp.SemanticAvailable || !resp.SemanticUsed {
		t.Errorf("semantic available/used = %v/%v, want true/true",
			resp.SemanticAvailable, resp.SemanticUsed)
	}
	if embed.calls == 0 {
		t.Error("embedder must be exercised during rebuild and search")
	}
}

func TestEngine_SynonymExpansion(t *testing.T) {
	synonyms := map[string][]string{"cuti": {"leave", "vacation"}}
	e, err := New(WithSynonyms(synonyms))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterEntity(policyConfig(), policySource()); err != nil {
		t.Fatalf("RegisterEntity: %v", err)
	}
	ctx := context.Background()
	if _, err := e.RebuildIndex(ctx); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}

	// "cuti" matches nothing literally; the synonym expansion reaches "leave".
	resp, err := e.Search(ctx, "cuti", &SearchOptions{SearchTypes: []string{SearchTypeKeyword}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.TotalResults == 0 {
		t.Error("expected results via synonym expansion")
	}
	if resp.ExpandedQuery == resp.Query {
		t.Errorf("expanded query %q must differ from raw query", resp.ExpandedQuery)
	}
}

// stubEmbedder emits deterministic vectors derived from the text.
type stubEmbedder struct {
	calls int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++
	vec := make([]float32, 8)
	for i, r := range text {
		vec[i%8] += float32(r % 13)
	}
	return vec, nil
}
