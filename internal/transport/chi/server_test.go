package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/domain/entity"
	"github.com/nusahr/hrsearch/internal/extract"
	"github.com/nusahr/hrsearch/internal/index"
	"github.com/nusahr/hrsearch/internal/query"
	healthuc "github.com/nusahr/hrsearch/internal/usecase/health"
	"github.com/nusahr/hrsearch/internal/usecase/indexer"
	searchuc "github.com/nusahr/hrsearch/internal/usecase/search"
)

type memProvider struct {
	records []entity.Record
}

func (p *memProvider) FetchRecords(_ context.Context, _ int) ([]entity.Record, error) {
	return p.records, nil
}

func mapField(name string) entity.Field {
	return entity.Field{Name: name, Access: func(r entity.Record) string {
		m, _ := r.(map[string]string)
		return m[name]
	}}
}

// newTestServer wires real services over an in-memory corpus, keyword-only.
func newTestServer(t *testing.T) (*Server, *index.Manager) {
	t.Helper()

	cfg, err := entity.NewConfig(
		"policy_document", 1.0,
		[]entity.Field{mapField("title"), mapField("content")},
		[]entity.Field{mapField("title")},
		nil,
		func(r entity.Record) string {
			m, _ := r.(map[string]string)
			return m["id"]
		},
		nil, nil,
	)
	if err != nil {
		t.Fatalf("entity.NewConfig: %v", err)
	}

	registry := entity.NewRegistry()
	provider := &memProvider{records: []entity.Record{
		map[string]string{"id": "1", "title": "Annual Leave Policy", "content": "annual leave entitlement and approval"},
		map[string]string{"id": "2", "title": "Remote Work Policy", "content": "remote work arrangements and equipment"},
	}}
	if err := registry.Register(cfg, provider); err != nil {
		t.Fatalf("register: %v", err)
	}

	log := zap.NewNop()
	manager := index.NewManager()
	idx := indexer.New(registry, extract.New(log), nil, manager, nil, indexer.Options{}, log)
	search := searchuc.New(manager, nil, query.New(nil), nil)
	health := healthuc.New(nil, nil, manager)

	return NewServer(search, idx, health, log), manager
}

func mountedRouter(s *Server) http.Handler {
	r := chirouter.NewRouter()
	s.Mount(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body == "" {
		rdr = bytes.NewReader(nil)
	} else {
		rdr = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func rebuild(t *testing.T, h http.Handler) rebuildResponseDTO {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/v1/index/rebuild", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rebuild status = %d, body %s", rec.Code, rec.Body.String())
	}
	var summary rebuildResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode rebuild response: %v", err)
	}
	return summary
}

func TestRebuildIndex(t *testing.T) {
	srv, manager := newTestServer(t)
	h := mountedRouter(srv)

	summary := rebuild(t, h)
	if summary.Status != "success" {
		t.Errorf("status = %q, want success", summary.Status)
	}
	if summary.TotalDocuments != 2 {
		t.Errorf("total documents = %d, want 2", summary.TotalDocuments)
	}
	if len(summary.IndexedEntityTypes) != 1 || summary.IndexedEntityTypes[0] != "policy_document" {
		t.Errorf("entity types = %v", summary.IndexedEntityTypes)
	}
	if manager.Current() == nil {
		t.Error("rebuild must publish a snapshot")
	}
}

func TestSearchDocuments(t *testing.T) {
	srv, _ := newTestServer(t)
	h := mountedRouter(srv)
	rebuild(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/search",
		`{"query": "annual leave", "search_types": ["keyword"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp searchResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Query != "annual leave" {
		t.Errorf("query = %q", resp.Query)
	}
	if resp.TotalResults == 0 {
		t.Fatal("expected results for annual leave")
	}
	top := resp.Results[0]
	if top.ID != "1" || top.EntityType != "policy_document" {
		t.Errorf("top result = %s:%s, want policy_document:1", top.EntityType, top.ID)
	}
	if top.FinalRank != 1 {
		t.Errorf("final rank = %d, want 1", top.FinalRank)
	}
	if top.DisplayFields["title"] != "Annual Leave Policy" {
		t.Errorf("display title = %q", top.DisplayFields["title"])
	}
	if !resp.Metadata.KeywordUsed || resp.Metadata.SemanticUsed {
		t.Errorf("metadata methods = %+v", resp.Metadata)
	}
	if resp.Metadata.IndexSize != 2 {
		t.Errorf("index size = %d, want 2", resp.Metadata.IndexSize)
	}
}

func TestSearchDocuments_EntityFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	h := mountedRouter(srv)
	rebuild(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/search",
		`{"query": "policy", "filters": {"models": ["employee"]}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp searchResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalResults != 0 {
		t.Errorf("total = %d, want 0 (no employee documents indexed)", resp.TotalResults)
	}
}

func TestSearchDocuments_EmptyQueryRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	h := mountedRouter(srv)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/search", `{"query": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var errResp errorResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("code = %q, want %q", errResp.Code, codeValidationFailed)
	}
	if !strings.Contains(errResp.Message, "query") {
		t.Errorf("message = %q, want the offending field named", errResp.Message)
	}
}

func TestSearchDocuments_MalformedBodyRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	h := mountedRouter(srv)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/search", `{"query": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var errResp errorResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeBadRequest {
		t.Errorf("code = %q, want %q", errResp.Code, codeBadRequest)
	}
}

func TestSearchDocuments_InvalidFilterRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	h := mountedRouter(srv)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/search",
		`{"query": "leave", "filters": {"min_score": -1}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var errResp errorResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("code = %q, want %q", errResp.Code, codeValidationFailed)
	}
}

func TestSearchDocuments_UnknownSearchTypeRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	h := mountedRouter(srv)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/search",
		`{"query": "leave", "search_types": ["fuzzy"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)
	h := mountedRouter(srv)

	// Before the first rebuild the index check fails.
	rec := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 before rebuild", rec.Code)
	}

	rebuild(t, h)

	rec = doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 after rebuild", rec.Code)
	}
	var report struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Status != "ok" {
		t.Errorf("status = %q, want ok", report.Status)
	}
	if report.Checks["index"] != "ok" {
		t.Errorf("index check = %q, want ok", report.Checks["index"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := mountedRouter(srv)

	rec := doJSON(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
