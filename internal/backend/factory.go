// Package backend opens the kv store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/kv/memory"
	"spendwise/internal/kv/sqlite"
)

// Factory creates backends based on configuration
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger.With("component", "backend")}
}

// Create opens the kv store described by config.
func (f *Factory) Create(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLite(ctx, config)
	case MemoryBackend:
		return f.createMemory(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *Factory) createSQLite(ctx context.Context, config Config) (*Result, error) {
	store, err := sqlite.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite store: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &Result{Store: store, Cleanup: store.Close}, nil
}

func (f *Factory) createMemory(ctx context.Context) (*Result, error) {
	store := memory.New()
	f.logger.InfoContext(ctx, "Initialized memory backend, data is lost on exit")
	return &Result{Store: store, Cleanup: store.Close}, nil
}
