package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/domain/entity"
)

type mapProvider struct {
	records []entity.Record
	err     error
	limit   int
}

func (p *mapProvider) FetchRecords(_ context.Context, limit int) ([]entity.Record, error) {
	p.limit = limit
	if p.err != nil {
		return nil, p.err
	}
	return p.records, nil
}

func field(name string) entity.Field {
	return entity.Field{Name: name, Access: func(r entity.Record) string {
		m, _ := r.(map[string]string)
		return m[name]
	}}
}

func makeConfig(t *testing.T) entity.Config {
	t.Helper()
	cfg, err := entity.NewConfig(
		"employee", 1.0,
		[]entity.Field{field("name"), field("title")},
		[]entity.Field{field("name"), field("email")},
		[]string{"name"},
		func(r entity.Record) string {
			m, _ := r.(map[string]string)
			return m["id"]
		},
		func(r entity.Record) time.Time {
			m, _ := r.(map[string]string)
			ts, _ := time.Parse(time.RFC3339, m["created_at"])
			return ts
		},
		func(r entity.Record) string {
			m, _ := r.(map[string]string)
			return "/employees/" + m["id"]
		},
	)
	if err != nil {
		t.Fatalf("entity.NewConfig: %v", err)
	}
	return cfg
}

func record(kv map[string]string) entity.Record { return kv }

func TestExtract_BuildsDocuments(t *testing.T) {
	cfg := makeConfig(t)
	provider := &mapProvider{records: []entity.Record{
		record(map[string]string{
			"id": "1", "name": "Ana Wijaya", "title": "HR Manager",
			"email": "ana@corp.id", "created_at": "2026-02-01T10:00:00Z",
		}),
	}}
	e := New(zap.NewNop())

	docs, err := e.Extract(context.Background(), cfg, provider)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("documents = %d, want 1", len(docs))
	}

	doc := docs[0]
	if doc.Key() != "employee:1" {
		t.Errorf("key = %q, want employee:1", doc.Key())
	}
	if doc.SearchableText() != "Ana Wijaya HR Manager" {
		t.Errorf("searchable text = %q", doc.SearchableText())
	}
	if doc.DisplayFields()["email"] != "ana@corp.id" {
		t.Errorf("display email = %q", doc.DisplayFields()["email"])
	}
	if doc.URL() != "/employees/1" {
		t.Errorf("url = %q", doc.URL())
	}
	if doc.CreatedAt().IsZero() {
		t.Error("created_at must be resolved")
	}
	if len(doc.BoostFields()) != 1 || doc.BoostFields()[0] != "name" {
		t.Errorf("boost fields = %v, want [name]", doc.BoostFields())
	}
}

func TestExtract_PassesDocumentCap(t *testing.T) {
	cfg := makeConfig(t).WithMaxDocuments(25)
	provider := &mapProvider{}
	e := New(zap.NewNop())

	if _, err := e.Extract(context.Background(), cfg, provider); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if provider.limit != 25 {
		t.Errorf("fetch limit = %d, want 25", provider.limit)
	}
}

func TestExtract_SkipsEmptySearchableText(t *testing.T) {
	cfg := makeConfig(t)
	provider := &mapProvider{records: []entity.Record{
		record(map[string]string{"id": "1", "name": "  ", "title": ""}),
		record(map[string]string{"id": "2", "name": "Budi"}),
	}}
	e := New(zap.NewNop())

	docs, err := e.Extract(context.Background(), cfg, provider)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(docs) != 1 || docs[0].ID() != "2" {
		t.Errorf("documents = %v, want only id 2", docs)
	}
}

func TestExtract_SkipsMissingID(t *testing.T) {
	cfg := makeConfig(t)
	provider := &mapProvider{records: []entity.Record{
		record(map[string]string{"name": "No ID"}),
	}}
	e := New(zap.NewNop())

	docs, err := e.Extract(context.Background(), cfg, provider)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("documents = %d, want 0", len(docs))
	}
}

func TestExtract_RecoversAccessorPanic(t *testing.T) {
	cfg, err := entity.NewConfig(
		"employee", 1.0,
		[]entity.Field{{Name: "name", Access: func(r entity.Record) string {
			m := r.(map[string]string) // panics on non-map records
			return m["name"]
		}}},
		nil, nil,
		func(r entity.Record) string {
			if m, ok := r.(map[string]string); ok {
				return m["id"]
			}
			return "bad"
		},
		nil, nil,
	)
	if err != nil {
		t.Fatalf("entity.NewConfig: %v", err)
	}

	provider := &mapProvider{records: []entity.Record{
		record(map[string]string{"id": "1", "name": "Ana"}),
		42, // triggers the accessor panic
	}}
	e := New(zap.NewNop())

	docs, err := e.Extract(context.Background(), cfg, provider)
	if err != nil {
		t.Fatalf("a panicking record must not abort extraction: %v", err)
	}
	if len(docs) != 1 || docs[0].ID() != "1" {
		t.Errorf("documents = %v, want only id 1", docs)
	}
}

func TestExtract_ProviderError(t *testing.T) {
	cfg := makeConfig(t)
	wantErr := errors.New("db unreachable")
	provider := &mapProvider{err: wantErr}
	e := New(zap.NewNop())

	if _, err := e.Extract(context.Background(), cfg, provider); !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped provider error", err)
	}
}
