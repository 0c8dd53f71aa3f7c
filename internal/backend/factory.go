// Package backend selects and wires a document store from application
// configuration.
package backend

import (
	"fmt"
	"log/slog"

	"budgeteer/internal/config"
	"budgeteer/internal/store"
	"budgeteer/internal/store/jsonfile"
	"budgeteer/internal/store/memory"
	"budgeteer/internal/store/sqlite"
)

// Type identifies a store implementation.
type Type string

const (
	JSONFileBackend Type = "jsonfile"
	SQLiteBackend   Type = "sqlite"
	MemoryBackend   Type = "memory"
)

// IsValid reports whether t names a known backend.
func (t Type) IsValid() bool {
	switch t {
	case JSONFileBackend, SQLiteBackend, MemoryBackend:
		return true
	}
	return false
}

// CleanupFunc releases resources held by a store.
type CleanupFunc func() error

// Result holds the created store and an optional cleanup function.
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the store named by cfg.DataBackend.
func (f *Factory) CreateStore(cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case JSONFileBackend:
		st, err := jsonfile.New(cfg.DatabaseFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JSON file store: %w", err)
		}
		f.logger.Info("Initialized JSON file backend", "file", cfg.DatabaseFile)
		return &Result{Store: st}, nil

	case SQLiteBackend:
		st, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: st, Cleanup: st.Close}, nil

	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: memory.New()}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}
