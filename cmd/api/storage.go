package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/kv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// openStore builds the kv backend selected by STORAGE_DRIVER, scoped to
// STORAGE_NAMESPACE. The returned func releases its connections.
func openStore(ctx context.Context, cfg config.Config) (*kv.Namespaced, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("create db pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database (%s): %w", config.RedactDSN(cfg.DatabaseDSN), err)
		}
		slog.Info("database connection OK", "dsn", config.RedactDSN(cfg.DatabaseDSN))
		return kv.NewNamespaced(kv.NewPostgresRepo(pool, cfg.DBTimeout), cfg.StorageNamespace), pool.Close, nil

	case config.DriverRedis:
		store := kv.NewRedisStore(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		slog.Info("redis connection OK", "addr", cfg.RedisAddr)
		return kv.NewNamespaced(store, cfg.StorageNamespace), func() { _ = store.Close() }, nil

	default:
		slog.Warn("using in-memory storage, library state is lost on restart")
		return kv.NewNamespaced(kv.NewMemory(), cfg.StorageNamespace), func() {}, nil
	}
}
