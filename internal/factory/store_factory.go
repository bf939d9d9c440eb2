package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/engagement-tools/internal/adapters/checkpoint"
	"github.com/mikey/engagement-tools/internal/config"
	"github.com/mikey/engagement-tools/internal/dedup"
)

// StoreFactory creates checkpoint stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new checkpoint store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCheckpointStore creates a checkpoint store based on the configuration
func (f *StoreFactory) CreateCheckpointStore() (dedup.Store, error) {
	cpCfg := f.cfg.GetCheckpoint()

	switch cpCfg.Type {
	case "json":
		return checkpoint.NewJSONStore(f.logger), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cpCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return checkpoint.NewSQLiteStore(cpCfg.SQLitePath, f.logger)
	default:
		return nil, fmt.Errorf("unsupported checkpoint store type: %s", cpCfg.Type)
	}
}
