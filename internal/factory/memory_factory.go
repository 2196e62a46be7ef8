package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/llm-email-assistant/internal/adapters/memory"
	"github.com/mikey/llm-email-assistant/internal/config"
	"github.com/mikey/llm-email-assistant/internal/core"
	"go.uber.org/zap"
)

// MemoryFactory creates conversation memory stores based on configuration
type MemoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMemoryFactory creates a new memory factory
func NewMemoryFactory(cfg *config.Config, logger *zap.Logger) *MemoryFactory {
	return &MemoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMemoryStore creates a memory store based on the configuration
func (f *MemoryFactory) CreateMemoryStore() (core.MemoryStore, error) {
	memCfg := f.cfg.GetMemory()

	switch memCfg.Type {
	case "file":
		return memory.NewFileStore(memCfg.FilePath, memCfg.MaxHistory, f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(memCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return memory.NewSQLiteStore(memCfg.SQLitePath, memCfg.MaxHistory, f.logger)
	case "mysql":
		return memory.NewMySQLStore(memCfg.MySQLDSN, memCfg.MaxHistory, f.logger)
	default:
		return nil, fmt.Errorf("unsupported memory store type: %s", memCfg.Type)
	}
}
