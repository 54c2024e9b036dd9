// Package entity defines indexable entity configurations and record access.
package entity

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// DefaultMaxDocuments bounds per-entity extraction cost during index builds.
const DefaultMaxDocuments = 1000

// Record is a raw source record. Field accessors know its concrete shape.
type Record any

// Accessor extracts one field value from a record. A missing or unset field
// returns an empty string, not an error.
type Accessor func(Record) string

// TimeAccessor extracts the record timestamp. A zero time means the record
// carries no timestamp and passes date filters by default.
type TimeAccessor func(Record) time.Time

// Field pairs a field name with its typed accessor, resolved once at
// registration time instead of per-record reflection.
type Field struct {
	Name   string
	Access Accessor
}

// Provider yields raw records for one entity type.
type Provider interface {
	FetchRecords(ctx context.Context, limit int) ([]Record, error)
}

// Config describes one indexable entity type. Immutable, configured once at startup.
type Config struct {
	name          string
	weight        float64
	maxDocuments  int
	searchFields  []Field
	displayFields []Field
	boostFields   map[string]bool
	idAccessor    Accessor
	timeAccessor  TimeAccessor
	urlAccessor   Accessor
}

// NewConfig validates and creates an entity configuration.
// boostFields must be a subset of the display field names.
func NewConfig(
	name string,
	weight float64,
	searchFields, displayFields []Field,
	boostFields []string,
	idAccessor Accessor,
	timeAccessor TimeAccessor,
	urlAccessor Accessor,
) (Config, error) {
	if name == "" {
		return Config{}, fmt.Errorf("entity name is required")
	}
	if len(searchFields) == 0 {
		return Config{}, fmt.Errorf("entity %q: at least one search field is required", name)
	}
	if idAccessor == nil {
		return Config{}, fmt.Errorf("entity %q: id accessor is required", name)
	}
	if weight <= 0 {
		weight = 1.0
	}

	display := make(map[string]bool, len(displayFields))
	for _, f := range displayFields {
		display[f.Name] = true
	}
	boost := make(map[string]bool, len(boostFields))
	for _, b := range boostFields {
		if !display[b] {
			return Config{}, fmt.Errorf("entity %q: boost field %q is not a display field", name, b)
		}
		boost[b] = true
	}

	return Config{
		name:          name,
		weight:        weight,
		maxDocuments:  DefaultMaxDocuments,
		searchFields:  searchFields,
		displayFields: displayFields,
		boostFields:   boost,
		idAccessor:    idAccessor,
		timeAccessor:  timeAccessor,
		urlAccessor:   urlAccessor,
	}, nil
}

// WithMaxDocuments overrides the per-entity document cap.
func (c Config) WithMaxDocuments(n int) Config {
	if n > 0 {
		c.maxDocuments = n
	}
	return c
}

// WithWeight overrides the relevance weight (deployment tuning).
func (c Config) WithWeight(w float64) Config {
	if w > 0 {
		c.weight = w
	}
	return c
}

// Name returns the entity type identifier.
func (c *Config) Name() string { return c.name }

// Weight returns the entity relevance multiplier.
func (c *Config) Weight() float64 { return c.weight }

// MaxDocuments returns the per-entity extraction cap.
func (c *Config) MaxDocuments() int { return c.maxDocuments }

// SearchFields returns the fields contributing to searchable text.
func (c *Config) SearchFields() []Field { return c.searchFields }

// DisplayFields returns the fields resolved into display metadata.
func (c *Config) DisplayFields() []Field { return c.displayFields }

// BoostFieldNames returns the sorted boost field names.
func (c *Config) BoostFieldNames() []string {
	names := make([]string, 0, len(c.boostFields))
	for n := range c.boostFields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ID resolves the record identifier.
func (c *Config) ID(r Record) string { return c.idAccessor(r) }

// CreatedAt resolves the record timestamp, zero when absent.
func (c *Config) CreatedAt(r Record) time.Time {
	if c.timeAccessor == nil {
		return time.Time{}
	}
	return c.timeAccessor(r)
}

// URL resolves the record back-reference, empty when absent.
func (c *Config) URL(r Record) string {
	if c.urlAccessor == nil {
		return ""
	}
	return c.urlAccessor(r)
}

// Registration binds an entity configuration to its record provider.
type Registration struct {
	Config   Config
	Provider Provider
}

// Registry holds all registered entity types in registration order.
type Registry struct {
	order   []string
	entries map[string]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register adds an entity type. Re-registering a name is an error.
func (r *Registry) Register(cfg Config, provider Provider) error {
	if provider == nil {
		return fmt.Errorf("entity %q: provider is required", cfg.Name())
	}
	if _, ok := r.entries[cfg.Name()]; ok {
		return fmt.Errorf("entity %q already registered", cfg.Name())
	}
	r.order = append(r.order, cfg.Name())
	r.entries[cfg.Name()] = Registration{Config: cfg, Provider: provider}
	return nil
}

// Get returns the registration for an entity type.
func (r *Registry) Get(name string) (Registration, bool) {
	reg, ok := r.entries[name]
	return reg, ok
}

// All returns registrations in registration order.
func (r *Registry) All() []Registration {
	out := make([]Registration, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// Names returns entity type names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
