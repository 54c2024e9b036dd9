package hrsearch

import (
	"context"
	"strconv"
	"time"

	"github.com/nusahr/hrsearch/internal/domain/entity"
)

// RecordSource yields raw records for one entity type. Records are flat JSON
// object maps; configured field names select what gets indexed.
type RecordSource interface {
	FetchRecords(ctx context.Context, limit int) ([]map[string]any, error)
}

// EntityConfig describes one indexable entity type.
type EntityConfig struct {
	// Name identifies the entity type in results and filters.
	Name string

	// Weight scales this entity's scores during fusion. Defaults to 1.0.
	Weight float64

	// MaxDocuments caps extraction per rebuild. Defaults to 1000.
	MaxDocuments int

	// SearchFields are concatenated into the searchable text blob.
	SearchFields []string

	// DisplayFields are carried into results as display metadata.
	DisplayFields []string

	// BoostFields is a subset of DisplayFields whose matches score higher in
	// keyword fallback mode.
	BoostFields []string

	// IDField holds the record identifier. Defaults to "id".
	IDField string

	// TimeField holds an RFC 3339 or date-only timestamp for date filtering.
	// Optional.
	TimeField string

	// URLPrefix builds the record back-reference as prefix+id. Optional.
	URLPrefix string
}

func (c EntityConfig) toDomain() (entity.Config, error) {
	idField := c.IDField
	if idField == "" {
		idField = "id"
	}

	var timeAccessor entity.TimeAccessor
	if c.TimeField != "" {
		timeAccessor = recordTime(c.TimeField)
	}
	var urlAccessor entity.Accessor
	if c.URLPrefix != "" {
		urlAccessor = recordURL(c.URLPrefix, idField)
	}

	cfg, err := entity.NewConfig(
		c.Name, c.Weight,
		recordFields(c.SearchFields),
		recordFields(c.DisplayFields),
		c.BoostFields,
		recordField(idField),
		timeAccessor,
		urlAccessor,
	)
	if err != nil {
		return entity.Config{}, err
	}
	return cfg.WithMaxDocuments(c.MaxDocuments), nil
}

func recordFields(names []string) []entity.Field {
	out := make([]entity.Field, len(names))
	for i, n := range names {
		out[i] = entity.Field{Name: n, Access: recordField(n)}
	}
	return out
}

func recordField(name string) entity.Accessor {
	return func(r entity.Record) string {
		m, ok := r.(map[string]any)
		if !ok {
			return ""
		}
		switch v := m[name].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		default:
			return ""
		}
	}
}

func recordTime(name string) entity.TimeAccessor {
	field := recordField(name)
	return func(r entity.Record) time.Time {
		s := field(r)
		if s == "" {
			return time.Time{}
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t
		}
		return time.Time{}
	}
}

func recordURL(prefix, idField string) entity.Accessor {
	id := recordField(idField)
	return func(r entity.Record) string {
		v := id(r)
		if v == "" {
			return ""
		}
		return prefix + v
	}
}
