package app

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/match-history/internal/config"
	"github.com/riskibarqy/match-history/internal/domain/aggregate"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/performance"
	"github.com/riskibarqy/match-history/internal/domain/shot"
	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-history/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/match-history/internal/platform/cache"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

type repositories struct {
	users        user.Repository
	matches      match.Repository
	shots        shot.Repository
	performances performance.Repository
	aggregates   aggregate.Repository
	close        func() error
}

// newRepositories uses Postgres when DB_URL is set and the in-process store
// otherwise.
func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL empty, using in-memory store")
		db := memory.NewDatabase()
		return repositories{
			users:        memory.NewUserRepository(db),
			matches:      memory.NewMatchRepository(db),
			shots:        memory.NewShotRepository(db),
			performances: memory.NewPerformanceRepository(db),
			aggregates:   memory.NewAggregateRepository(db),
			close:        func() error { return nil },
		}, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	logger.Info("postgres connected", "db_name", dbNameFromURL(cfg.DBURL))
	return repositories{
		users:        postgres.NewUserRepository(db),
		matches:      postgres.NewMatchRepository(db),
		shots:        postgres.NewShotRepository(db),
		performances: postgres.NewPerformanceRepository(db),
		aggregates:   postgres.NewAggregateRepository(db),
		close:        db.Close,
	}, nil
}

// newCacheBackend returns Redis when configured and reachable. An unreachable
// Redis at boot degrades to the process-local store so a single replica can
// still serve.
func newCacheBackend(ctx context.Context, cfg config.Config, logger *logging.Logger) (cache.Backend, func() error, error) {
	if cfg.CacheBackend != config.CacheBackendRedis {
		return cache.NewMemoryStore(), func() error { return nil }, nil
	}

	store := cache.NewRedisStore(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   cfg.RedisKeyPrefix,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		logger.Warn("redis unreachable, falling back to in-memory cache", "addr", cfg.RedisAddr, "error", err)
		return cache.NewMemoryStore(), func() error { return nil }, nil
	}

	logger.Info("redis connected", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return store, store.Close, nil
}

func closeAll(closers []func() error) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && first == nil {
			first = fmt.Errorf("close resource: %w", err)
		}
	}
	return first
}
