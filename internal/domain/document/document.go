package document

import (
	"fmt"
	"time"
)

// Document is the atomic unit of search (immutable value object). It is
// produced by the extractor at index-build time and identified by the
// composite key (entity type, id).
type Document struct {
	id             string
	entityType     string
	searchableText string
	displayFields  map[string]string
	weight         float64
	boostFields    []string
	createdAt      time.Time
	url            string
}

// New validates and creates a Document.
// SearchableText must be non-empty: records with no extractable text are not
// indexable and must be skipped upstream.
func New(
	entityType, id, searchableText string,
	displayFields map[string]string,
	weight float64,
	boostFields []string,
	createdAt time.Time,
	url string,
) (Document, error) {
	if entityType == "" {
		return Document{}, fmt.Errorf("entity type is required")
	}
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if searchableText == "" {
		return Document{}, fmt.Errorf("searchable text is required")
	}
	if weight <= 0 {
		weight = 1.0
	}

	return Document{
		id:             id,
		entityType:     entityType,
		searchableText: searchableText,
		displayFields:  cloneStringMap(displayFields),
		weight:         weight,
		boostFields:    cloneStrings(boostFields),
		createdAt:      createdAt,
		url:            url,
	}, nil
}

// Key returns the composite document key "entityType:id", unique across the corpus.
func (d Document) Key() string { return d.entityType + ":" + d.id }

// ID returns the identifier, unique within the entity type.
func (d Document) ID() string { return d.id }

// EntityType returns the entity type tag.
func (d Document) EntityType() string { return d.entityType }

// SearchableText returns the concatenated extracted field values.
func (d Document) SearchableText() string { return d.searchableText }

// DisplayFields returns the display field mapping.
func (d Document) DisplayFields() map[string]string { return d.displayFields }

// Weight returns the entity-level relevance multiplier.
func (d Document) Weight() float64 { return d.weight }

// BoostFields returns the display field names eligible for extra scoring.
func (d Document) BoostFields() []string { return d.boostFields }

// CreatedAt returns the record timestamp. Zero when the source record carries none.
func (d Document) CreatedAt() time.Time { return d.createdAt }

// URL returns the reference back to the originating record.
func (d Document) URL() string { return d.url }

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
