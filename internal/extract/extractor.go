// Package extract turns raw entity records into indexable documents.
package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/domain/document"
	"github.com/nusahr/hrsearch/internal/domain/entity"
)

// FieldSeparator joins resolved search field values into searchable text.
const FieldSeparator = " "

// Extractor produces documents from registered entity records.
// Per-record failures are logged and skipped: a single bad record never
// aborts an index build.
type Extractor struct {
	logger *zap.Logger
}

// New creates an extractor.
func New(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract enumerates records for one entity and builds documents.
// Records with empty searchable text are silently skipped. Output order
// follows provider order but downstream indexing does not depend on it.
func (e *Extractor) Extract(
	ctx context.Context, cfg entity.Config, provider entity.Provider,
) ([]document.Document, error) {
	records, err := provider.FetchRecords(ctx, cfg.MaxDocuments())
	if err != nil {
		return nil, fmt.Errorf("fetch records for %q: %w", cfg.Name(), err)
	}

	docs := make([]document.Document, 0, len(records))
	skipped := 0
	for _, rec := range records {
		doc, ok := e.extractOne(cfg, rec)
		if !ok {
			skipped++
			continue
		}
		docs = append(docs, doc)
	}

	if skipped > 0 {
		e.logger.Debug("Skipped records during extraction",
			zap.String("entity_type", cfg.Name()),
			zap.Int("skipped", skipped),
			zap.Int("extracted", len(docs)),
		)
	}

	return docs, nil
}

// extractOne resolves one record into a document. Returns false when the
// record yields no searchable text or no identifier.
func (e *Extractor) extractOne(cfg entity.Config, rec entity.Record) (document.Document, bool) {
	defer e.recoverExtraction(cfg.Name())

	id := cfg.ID(rec)
	if id == "" {
		return document.Document{}, false
	}

	var parts []string
	for _, f := range cfg.SearchFields() {
		if v := strings.TrimSpace(f.Access(rec)); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return document.Document{}, false
	}

	display := make(map[string]string, len(cfg.DisplayFields()))
	for _, f := range cfg.DisplayFields() {
		if v := f.Access(rec); v != "" {
			display[f.Name] = v
		}
	}

	doc, err := document.New(
		cfg.Name(), id,
		strings.Join(parts, FieldSeparator),
		display,
		cfg.Weight(),
		cfg.BoostFieldNames(),
		cfg.CreatedAt(rec),
		cfg.URL(rec),
	)
	if err != nil {
		e.logger.Warn("Failed to build document",
			zap.String("entity_type", cfg.Name()),
			zap.String("id", id),
			zap.Error(err),
		)
		return document.Document{}, false
	}

	return doc, true
}

// recoverExtraction absorbs accessor panics so one malformed record cannot
// abort the whole build.
func (e *Extractor) recoverExtraction(entityType string) {
	if r := recover(); r != nil {
		e.logger.Warn("Record extraction panicked",
			zap.String("entity_type", entityType),
			zap.Any("panic", r),
		)
	}
}
