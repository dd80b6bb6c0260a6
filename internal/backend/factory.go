package backend

import (
	"context"
	"fmt"

	"cuentas/internal/log"
	"cuentas/internal/storage"
	"cuentas/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, storage.Options{
		IDGen:      config.IDGen,
		MaxRetries: config.StoreRetryMax,
		Logger:     f.logger.WithComponent(log.ComponentStorage),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		log.FieldPath, config.SQLiteDBPath,
		log.FieldRetry, config.StoreRetryMax)

	return &BackendResult{Store: repo, Type: SQLiteBackend}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	st := memory.New(config.IDGen)

	f.logger.InfoContext(ctx, "Initialized memory backend; data is lost on exit")

	return &BackendResult{Store: st, Type: MemoryBackend}, nil
}
