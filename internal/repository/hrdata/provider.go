// Package hrdata supplies HR records from JSON files exported by the upstream
// HR system. Each entity type reads one file from the data directory.
package hrdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/domain/entity"
)

// FileProvider reads one entity type's records from a JSON array file.
type FileProvider struct {
	path   string
	logger *zap.Logger
}

// NewFileProvider creates a provider backed by a JSON file.
func NewFileProvider(path string, logger *zap.Logger) *FileProvider {
	return &FileProvider{path: path, logger: logger}
}

// FetchRecords implements entity.Provider. A missing file yields no records
// rather than an error, so a partial data export still builds an index.
func (p *FileProvider) FetchRecords(ctx context.Context, limit int) ([]entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			p.logger.Debug("Data file absent, no records", zap.String("path", p.path))
			return nil, nil
		}
		return nil, fmt.Errorf("read data file %s: %w", p.path, err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", p.path, err)
	}

	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}

	records := make([]entity.Record, len(raw))
	for i, r := range raw {
		records[i] = r
	}
	return records, nil
}
