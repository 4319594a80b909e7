package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/immense/internal/config"
	"github.com/aretw0/immense/pkg/adapters/memory"
	"github.com/aretw0/immense/pkg/adapters/redis"
	"github.com/aretw0/immense/pkg/adapters/sqlite"
	"github.com/aretw0/immense/pkg/persistence/middleware"
	"github.com/aretw0/immense/pkg/ports"
)

// OpenStore creates the scene store selected by cfg.Store, wrapped with
// validation and logging. The returned close function releases its
// connections.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.SceneStore, func() error, error) {
	store, closeStore, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return middleware.Chain(store,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewValidationMiddleware(),
	), closeStore, nil
}

func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.SceneStore, func() error, error) {
	switch cfg.Store {
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("Using redis store", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
		return store, store.Close, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("Using sqlite store", "path", cfg.SQLitePath)
		return store, store.Close, nil
	case config.StoreMemory, "":
		logger.Debug("Using memory store")
		return memory.NewStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
