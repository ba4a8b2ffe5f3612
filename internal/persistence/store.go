package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/config"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	"github.com/helpdesk-kit/helpdesk-service/internal/sqlite"
)

// OpenStore connects the configured storage driver and brings its schema up to date.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return repository.Store{}, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return repository.Store{}, err
			}
		}
		return pg.Store(), nil
	case config.StoreDriverSQLite:
		db, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return repository.Store{}, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return repository.Store{}, err
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.Store.SQLitePath))
		return sqlite.NewStore(db), nil
	}
	return repository.Store{}, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
