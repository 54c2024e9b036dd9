package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Filter restricts fused search results by entity type, record date, and
// minimum combined score. The zero Filter passes everything.
type Filter struct {
	entityTypes []string
	dateFrom    *time.Time
	dateTo      *time.Time
	minScore    float64
}

// New validates and creates a Filter.
func New(entityTypes []string, dateFrom, dateTo *time.Time, minScore float64) (Filter, error) {
	if minScore < 0 {
		return Filter{}, fmt.Errorf("min_score must be non-negative")
	}
	if dateFrom != nil && dateTo != nil && dateFrom.After(*dateTo) {
		return Filter{}, fmt.Errorf("date_from must not be after date_to")
	}

	// Sorted copy keeps the cache fingerprint independent of caller order.
	types := make([]string, 0, len(entityTypes))
	for _, t := range entityTypes {
		if t != "" {
			types = append(types, t)
		}
	}
	sort.Strings(types)

	return Filter{
		entityTypes: types,
		dateFrom:    dateFrom,
		dateTo:      dateTo,
		minScore:    minScore,
	}, nil
}

// EntityTypes returns the sorted entity-type allow-list (empty = all).
func (f Filter) EntityTypes() []string { return f.entityTypes }

// MinScore returns the minimum combined score threshold.
func (f Filter) MinScore() float64 { return f.minScore }

// DateFrom returns the inclusive lower date bound.
func (f Filter) DateFrom() *time.Time { return f.dateFrom }

// DateTo returns the inclusive upper date bound.
func (f Filter) DateTo() *time.Time { return f.dateTo }

// IsEmpty reports whether the filter passes everything.
func (f Filter) IsEmpty() bool {
	return len(f.entityTypes) == 0 && f.dateFrom == nil && f.dateTo == nil && f.minScore == 0
}

// AllowsEntity reports whether the entity type passes the allow-list.
func (f Filter) AllowsEntity(entityType string) bool {
	if len(f.entityTypes) == 0 {
		return true
	}
	for _, t := range f.entityTypes {
		if t == entityType {
			return true
		}
	}
	return false
}

// AllowsDate reports whether the timestamp falls inside the date range.
// A zero timestamp passes by default: documents without a date are never
// excluded by a date filter.
func (f Filter) AllowsDate(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	if f.dateFrom != nil && t.Before(*f.dateFrom) {
		return false
	}
	if f.dateTo != nil && t.After(*f.dateTo) {
		return false
	}
	return true
}

// Canonical returns a deterministic string form for cache fingerprinting.
func (f Filter) Canonical() string {
	var b strings.Builder
	b.WriteString("types=")
	b.WriteString(strings.Join(f.entityTypes, ","))
	b.WriteString(";from=")
	if f.dateFrom != nil {
		b.WriteString(f.dateFrom.UTC().Format(time.RFC3339))
	}
	b.WriteString(";to=")
	if f.dateTo != nil {
		b.WriteString(f.dateTo.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, ";min=%g", f.minScore)
	return b.String()
}
