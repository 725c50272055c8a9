package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/riskibarqy/match-history/internal/config"
	"github.com/riskibarqy/match-history/internal/platform/cache"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                   config.EnvDev,
		ServiceName:              "match-history-api",
		HTTPAddr:                 ":0",
		CORSAllowedOrigins:       []string{"*"},
		CacheBackend:             config.CacheBackendMemory,
		AggregateCacheTTL:        time.Minute,
		GameStatsBaseURL:         "http://127.0.0.1:1",
		GameStatsTimeout:         time.Second,
		GameStatsPageSize:        100,
		GateLockTTL:              time.Minute,
		GateFetchingTTL:          time.Minute,
		GateRecentlySyncedTTL:    time.Minute,
		GatePollInterval:         10 * time.Millisecond,
		GatePollMaxAttempts:      5,
		GateDefaultDesiredCount:  20,
		GateMaxDesiredCount:      100,
		FetchWorkerCount:         2,
		ExtractionMode:           "inline",
		WarmRefreshSchedule:      "0 */15 * * * *",
		ExtractionSweepSchedule:  "0 */5 * * * *",
		ExtractionSweepMinAge:    10 * time.Minute,
		ExtractionSweepBatchSize: 100,
	}
}

func TestNew_InMemoryServesHealthz(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNew_WarmRefreshSchedulesCron(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.WarmRefreshEnabled = true
	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	if a.cron == nil {
		t.Fatalf("expected cron runner when warm refresh is enabled")
	}
	a.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	cfg.WarmRefreshSchedule = "not a schedule"
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}
}

func TestNew_ExtractionSweepSchedulesCron(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ExtractionSweepEnabled = true
	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	if a.cron == nil {
		t.Fatalf("expected cron runner when the extraction sweep is enabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	cfg.ExtractionSweepSchedule = "every now and then"
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for invalid sweep schedule")
	}
}

func TestNew_RejectsUnknownExtractionMode(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ExtractionMode = "batch"
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unknown extraction mode")
	}
}

func TestNewCacheBackend(t *testing.T) {
	t.Parallel()

	t.Run("redis when reachable", func(t *testing.T) {
		t.Parallel()

		srv := miniredis.RunT(t)
		cfg := testConfig()
		cfg.CacheBackend = config.CacheBackendRedis
		cfg.RedisAddr = srv.Addr()

		backend, closeFn, err := newCacheBackend(context.Background(), cfg, logging.NewNop())
		if err != nil {
			t.Fatalf("new cache backend: %v", err)
		}
		defer func() { _ = closeFn() }()
		if _, ok := backend.(*cache.RedisStore); !ok {
			t.Fatalf("expected redis store, got %T", backend)
		}
	})

	t.Run("memory fallback when unreachable", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.CacheBackend = config.CacheBackendRedis
		cfg.RedisAddr = "127.0.0.1:1"

		backend, _, err := newCacheBackend(context.Background(), cfg, logging.NewNop())
		if err != nil {
			t.Fatalf("new cache backend: %v", err)
		}
		if _, ok := backend.(*cache.MemoryStore); !ok {
			t.Fatalf("expected memory fallback, got %T", backend)
		}
	})
}
