package hrdata

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/domain/entity"
)

// Entity type names exposed by the HR data export.
const (
	EntityEmployee        = "employee"
	EntityJobPosition     = "job_position"
	EntityDepartment      = "department"
	EntityTrainingProgram = "training_program"
	EntityPolicyDocument  = "policy_document"
)

// Default relevance weights per entity type. Overridable via configuration.
var defaultWeights = map[string]float64{
	EntityEmployee:        1.0,
	EntityJobPosition:     0.9,
	EntityDepartment:      0.8,
	EntityTrainingProgram: 0.85,
	EntityPolicyDocument:  0.95,
}

// dataFiles maps entity types to their export file names.
var dataFiles = map[string]string{
	EntityEmployee:        "employees.json",
	EntityJobPosition:     "job_positions.json",
	EntityDepartment:      "departments.json",
	EntityTrainingProgram: "training_programs.json",
	EntityPolicyDocument:  "policy_documents.json",
}

// NewRegistry builds the entity registry for the HR domain. weightOverrides
// and maxDocuments come from configuration; zero values keep the defaults.
func NewRegistry(
	dataDir string,
	weightOverrides map[string]float64,
	maxDocuments int,
	logger *zap.Logger,
) (*entity.Registry, error) {
	registry := entity.NewRegistry()

	configs, err := entityConfigs()
	if err != nil {
		return nil, err
	}

	for _, cfg := range configs {
		if w, ok := weightOverrides[cfg.Name()]; ok {
			cfg = cfg.WithWeight(w)
		}
		cfg = cfg.WithMaxDocuments(maxDocuments)

		provider := NewFileProvider(filepath.Join(dataDir, dataFiles[cfg.Name()]), logger)
		if err := registry.Register(cfg, provider); err != nil {
			return nil, fmt.Errorf("register entity: %w", err)
		}
	}

	return registry, nil
}

func entityConfigs() ([]entity.Config, error) {
	builders := []func() (entity.Config, error){
		employeeConfig,
		jobPositionConfig,
		departmentConfig,
		trainingProgramConfig,
		policyDocumentConfig,
	}

	configs := make([]entity.Config, 0, len(builders))
	for _, build := range builders {
		cfg, err := build()
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func employeeConfig() (entity.Config, error) {
	return entity.NewConfig(
		EntityEmployee,
		defaultWeights[EntityEmployee],
		fields(
			"full_name", "position_title", "department_name",
			"skills", "bio",
		),
		fields(
			"full_name", "position_title", "department_name", "email",
		),
		[]string{"full_name", "position_title"},
		stringField("id"),
		timeField("created_at"),
		urlFor("/employees/"),
	)
}

func jobPositionConfig() (entity.Config, error) {
	return entity.NewConfig(
		EntityJobPosition,
		defaultWeights[EntityJobPosition],
		fields(
			"title", "description", "requirements", "department_name",
		),
		fields(
			"title", "department_name", "employment_type",
		),
		[]string{"title"},
		stringField("id"),
		timeField("created_at"),
		urlFor("/positions/"),
	)
}

func departmentConfig() (entity.Config, error) {
	return entity.NewConfig(
		EntityDepartment,
		defaultWeights[EntityDepartment],
		fields(
			"name", "description", "head_name",
		),
		fields(
			"name", "head_name",
		),
		[]string{"name"},
		stringField("id"),
		timeField("created_at"),
		urlFor("/departments/"),
	)
}

func trainingProgramConfig() (entity.Config, error) {
	return entity.NewConfig(
		EntityTrainingProgram,
		defaultWeights[EntityTrainingProgram],
		fields(
			"title", "description", "category", "trainer_name",
		),
		fields(
			"title", "category", "start_date",
		),
		[]string{"title"},
		stringField("id"),
		timeField("created_at"),
		urlFor("/training/"),
	)
}

func policyDocumentConfig() (entity.Config, error) {
	return entity.NewConfig(
		EntityPolicyDocument,
		defaultWeights[EntityPolicyDocument],
		fields(
			"title", "summary", "content", "category",
		),
		fields(
			"title", "category", "effective_date",
		),
		[]string{"title"},
		stringField("id"),
		timeField("created_at"),
		urlFor("/policies/"),
	)
}

func fields(names ...string) []entity.Field {
	out := make([]entity.Field, len(names))
	for i, n := range names {
		out[i] = entity.Field{Name: n, Access: stringField(n)}
	}
	return out
}

// stringField resolves a top-level field to a string. JSON numbers and bools
// are formatted; anything else resolves empty.
func stringField(name string) entity.Accessor {
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

// timeField parses an RFC 3339 or date-only timestamp, zero when absent or malformed.
func timeField(name string) entity.TimeAccessor {
	return func(r entity.Record) time.Time {
		m, ok := r.(map[string]any)
		if !ok {
			return time.Time{}
		}
		s, ok := m[name].(string)
		if !ok || s == "" {
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

// urlFor builds the record back-reference from a path prefix and the record id.
func urlFor(prefix string) entity.Accessor {
	id := stringField("id")
	return func(r entity.Record) string {
		v := id(r)
		if v == "" {
			return ""
		}
		return prefix + v
	}
}
