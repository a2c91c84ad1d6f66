package storage

import (
	"context"
	"fmt"
	"time"

	"expired-listings/config"
	"expired-listings/utils"
)

// Open returns the RunStore selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, logger *utils.Logger) (RunStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Info("[storage] Keeping up to %d runs in memory", cfg.StoreCapacity)
		return NewMemoryStore(cfg.StoreCapacity), nil
	case config.StoreSQLite:
		logger.Info("[storage] Using SQLite database at %s", cfg.SQLitePath)
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case config.StorePostgres:
		logger.Info("[storage] Connecting to PostgreSQL at %s:%s", cfg.PostgresHost, cfg.PostgresPort)
		return NewPostgresStore(ctx, cfg.DSN(), &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		})
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StoreDriver)
	}
}
