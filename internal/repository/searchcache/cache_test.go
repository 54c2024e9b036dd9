package searchcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/db"
	"github.com/nusahr/hrsearch/internal/domain/document"
	"github.com/nusahr/hrsearch/internal/domain/search/response"
	"github.com/nusahr/hrsearch/internal/domain/search/result"
	"github.com/nusahr/hrsearch/internal/domain/search/searchtype"
)

type fakeStore struct {
	data     map[string][]byte
	counters map[string]int64
	getErr   error
	setErr   error
	incrErr  error
	lastTTL  time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte), counters: make(map[string]int64)}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (s *fakeStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	s.lastTTL = ttl
	return nil
}

func (s *fakeStore) IncrBy(_ context.Context, key string, val int64) (int64, error) {
	if s.incrErr != nil {
		return 0, s.incrErr
	}
	s.counters[key] += val
	return s.counters[key], nil
}

func makeResponse(t *testing.T) *response.Response {
	t.Helper()
	created := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	doc, err := document.New(
		"employee", "7", "senior recruiter",
		map[string]string{"full_name": "Sari Dewi"},
		1.0, []string{"full_name"}, created, "/employees/7",
	)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return &response.Response{
		Query:         "recruiter",
		ExpandedQuery: "recruiter talent acquisition",
		TotalResults:  1,
		Results: []result.Ranked{
			result.NewRanked(doc, 0.82, []searchtype.Type{searchtype.Keyword, searchtype.Semantic}, 1),
		},
		Suggestions: []string{"recruiter hiring"},
		Metadata: response.Metadata{
			SearchTypes:       []searchtype.Type{searchtype.Keyword, searchtype.Semantic},
			SemanticAvailable: true,
			KeywordAvailable:  true,
			SemanticUsed:      true,
			KeywordUsed:       true,
			IndexSize:         120,
			IndexVersion:      3,
			Timestamp:         time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	store := newFakeStore()
	c := New(store, "test:", time.Minute, zap.NewNop())
	want := makeResponse(t)

	c.Put(context.Background(), 3, "fp", want)
	got, ok := c.Get(context.Background(), 3, "fp")
	if !ok {
		t.Fatal("expected cache hit")
	}

	if got.Query != want.Query || got.ExpandedQuery != want.ExpandedQuery {
		t.Errorf("query round-trip: %q/%q", got.Query, got.ExpandedQuery)
	}
	if got.TotalResults != 1 || len(got.Results) != 1 {
		t.Fatalf("results round-trip: total=%d len=%d", got.TotalResults, len(got.Results))
	}

	r := got.Results[0]
	doc := r.Document()
	if doc.Key() != "employee:7" {
		t.Errorf("document key = %q", doc.Key())
	}
	if doc.DisplayFields()["full_name"] != "Sari Dewi" {
		t.Errorf("display fields = %v", doc.DisplayFields())
	}
	if doc.CreatedAt().IsZero() {
		t.Error("created_at lost in round-trip")
	}
	if r.CombinedScore() != 0.82 || r.FinalRank() != 1 {
		t.Errorf("score/rank = %g/%d", r.CombinedScore(), r.FinalRank())
	}
	if len(r.SearchMethods()) != 2 {
		t.Errorf("search methods = %v", r.SearchMethods())
	}
	if got.Metadata.IndexVersion != 3 || !got.Metadata.SemanticUsed {
		t.Errorf("metadata round-trip: %+v", got.Metadata)
	}
	if store.lastTTL != time.Minute {
		t.Errorf("ttl = %v, want 1m", store.lastTTL)
	}
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	c := New(newFakeStore(), "test:", time.Minute, zap.NewNop())
	if _, ok := c.Get(context.Background(), 1, "fp"); ok {
		t.Error("expected miss on absent key")
	}
}

func TestCache_VersionNamespacesKeys(t *testing.T) {
	store := newFakeStore()
	c := New(store, "test:", time.Minute, zap.NewNop())

	c.Put(context.Background(), 1, "fp", makeResponse(t))
	if _, ok := c.Get(context.Background(), 2, "fp"); ok {
		t.Error("entry of version 1 must not be visible at version 2")
	}
	if _, ok := c.Get(context.Background(), 1, "fp"); !ok {
		t.Error("entry must stay visible at its own version")
	}
}

func TestCache_BackendFailureIsSoft(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	c := New(store, "test:", time.Minute, zap.NewNop())

	c.Put(context.Background(), 1, "fp", makeResponse(t))
	if _, ok := c.Get(context.Background(), 1, "fp"); ok {
		t.Error("backend failure must read as a miss")
	}
}

func TestCache_CorruptEntryIsSoft(t *testing.T) {
	store := newFakeStore()
	c := New(store, "test:", time.Minute, zap.NewNop())

	c.Put(context.Background(), 1, "fp", makeResponse(t))
	for k := range store.data {
		store.data[k] = []byte("{not json")
	}
	if _, ok := c.Get(context.Background(), 1, "fp"); ok {
		t.Error("corrupt entry must read as a miss")
	}
}

func TestCache_NextVersion(t *testing.T) {
	store := newFakeStore()
	c := New(store, "test:", time.Minute, zap.NewNop())

	v1, err := c.NextVersion(context.Background())
	if err != nil {
		t.Fatalf("NextVersion: %v", err)
	}
	v2, err := c.NextVersion(context.Background())
	if err != nil {
		t.Fatalf("NextVersion: %v", err)
	}
	if v1 != 1 || v2 != 2 {
		t.Errorf("versions = %d, %d, want 1, 2", v1, v2)
	}
	if _, ok := store.counters["test:index_version"]; !ok {
		t.Errorf("counter key missing, have %v", store.counters)
	}
}

func TestCache_NextVersionSurfacesError(t *testing.T) {
	store := newFakeStore()
	store.incrErr = errors.New("connection refused")
	c := New(store, "test:", time.Minute, zap.NewNop())

	if _, err := c.NextVersion(context.Background()); err == nil {
		t.Error("backend failure must surface from NextVersion")
	}
}

func TestCache_DefaultTTL(t *testing.T) {
	store := newFakeStore()
	c := New(store, "test:", 0, zap.NewNop())

	c.Put(context.Background(), 1, "fp", makeResponse(t))
	if store.lastTTL != DefaultTTL {
		t.Errorf("ttl = %v, want default %v", store.lastTTL, DefaultTTL)
	}
}
