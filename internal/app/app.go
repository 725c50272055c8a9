package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/match-history/external/gamestats"
	"github.com/riskibarqy/match-history/internal/config"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/match-history/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/match-history/internal/infrastructure/syncstate"
	"github.com/riskibarqy/match-history/internal/interfaces/httpapi"
	"github.com/riskibarqy/match-history/internal/platform/cache"
	"github.com/riskibarqy/match-history/internal/platform/cronrunner"
	idgen "github.com/riskibarqy/match-history/internal/platform/id"
	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/riskibarqy/match-history/internal/usecase"
)

// App owns the HTTP server and the background machinery behind it.
type App struct {
	Server  *http.Server
	gate    *usecase.RequestGate
	cron    *cronrunner.Runner
	closers []func() error
	logger  *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	backend, closeBackend, err := newCacheBackend(ctx, cfg, logger)
	if err != nil {
		_ = repos.close()
		return nil, err
	}
	a := &App{
		closers: []func() error{repos.close, closeBackend},
		logger:  logger,
	}

	state := syncstate.NewCacheState(backend, idgen.NewRandomGenerator())
	aggregates := cacherepo.NewAggregateRepository(repos.aggregates, cache.NewJSONLoader(backend), state, cfg.AggregateCacheTTL, logger)

	provider := gamestats.NewClient(gamestats.ClientConfig{
		BaseURL:         cfg.GameStatsBaseURL,
		APIKey:          cfg.GameStatsAPIKey,
		Timeout:         cfg.GameStatsTimeout,
		MaxRetries:      cfg.GameStatsMaxRetries,
		InitialInterval: cfg.GameStatsRetryInitialInterval,
		MaxInterval:     cfg.GameStatsRetryMaxInterval,
		Logger:          logger,
		CircuitBreaker:  cfg.GameStatsCircuit,
	})

	mode, err := usecase.ParseExtractionMode(cfg.ExtractionMode)
	if err != nil {
		_ = closeAll(a.closers)
		return nil, err
	}
	var queue usecase.JobQueue
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker:   cfg.QStashCircuit,
		}, logger)
	}

	pipeline := usecase.NewExtractionPipeline(
		repos.matches,
		usecase.NewShotExtractor(repos.users, repos.shots, logger),
		usecase.NewPerformanceExtractor(repos.users, repos.performances, logger),
		0,
		logger,
	)
	syncer := usecase.NewMatchSyncService(
		usecase.NewMatchFetcher(provider, repos.matches, usecase.MatchFetcherConfig{
			WorkerCount: cfg.FetchWorkerCount,
			PageSize:    cfg.GameStatsPageSize,
		}, logger),
		usecase.NewMatchStore(repos.matches, logger),
		usecase.NewExtractionDispatcher(mode, pipeline, queue, logger),
		usecase.NewCacheInvalidator(backend, logger),
		logger,
	)
	a.gate = usecase.NewRequestGate(
		usecase.NewUserDirectory(repos.users, provider, logger),
		repos.matches,
		syncer,
		state,
		state,
		usecase.GateConfig{
			LockTTL:             cfg.GateLockTTL,
			FetchingTTL:         cfg.GateFetchingTTL,
			RecentlySyncedTTL:   cfg.GateRecentlySyncedTTL,
			PollInterval:        cfg.GatePollInterval,
			PollMaxAttempts:     cfg.GatePollMaxAttempts,
			DefaultDesiredCount: cfg.GateDefaultDesiredCount,
			MaxDesiredCount:     cfg.GateMaxDesiredCount,
		},
		logger,
	)

	if cfg.WarmRefreshEnabled {
		warm := usecase.NewWarmRefreshService(repos.users, a.gate, usecase.WarmRefreshConfig{
			Lookback:  cfg.WarmRefreshLookback,
			BatchSize: cfg.WarmRefreshBatchSize,
			Category:  match.CategoryOfficial,
		}, logger)
		if err := a.schedule(ctx, "warm-refresh", cfg.WarmRefreshSchedule, warm.Job); err != nil {
			_ = closeAll(a.closers)
			return nil, err
		}
	}
	if cfg.ExtractionSweepEnabled {
		sweep := func(ctx context.Context) {
			if _, err := pipeline.SweepPending(ctx, cfg.ExtractionSweepMinAge, cfg.ExtractionSweepBatchSize); err != nil {
				logger.WarnContext(ctx, "extraction sweep failed", "error", err)
			}
		}
		if err := a.schedule(ctx, "extraction-sweep", cfg.ExtractionSweepSchedule, sweep); err != nil {
			_ = closeAll(a.closers)
			return nil, err
		}
	}

	handler := httpapi.NewHandler(
		a.gate,
		usecase.NewAggregateService(repos.users, aggregates),
		usecase.NewMatchQueryService(repos.matches, repos.shots, repos.performances),
		pipeline,
		logger,
	)
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

func (a *App) schedule(ctx context.Context, name, spec string, job func(context.Context)) error {
	if a.cron == nil {
		a.cron = cronrunner.New(ctx, a.logger)
	}
	_, err := a.cron.Add(name, spec, job)
	return err
}

// Start launches scheduled jobs. The caller runs Server.
func (a *App) Start() {
	if a.cron != nil {
		a.cron.Start()
	}
}

// Shutdown stops accepting requests, stops the scheduler, waits for detached
// sync cycles and releases storage. It returns early when ctx expires.
func (a *App) Shutdown(ctx context.Context) error {
	serverErr := a.Server.Shutdown(ctx)
	if a.cron != nil {
		a.cron.Stop()
	}

	drained := make(chan struct{})
	go func() {
		a.gate.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		a.logger.Warn("detached sync cycles still running at shutdown", "error", ctx.Err())
	}

	closeErr := closeAll(a.closers)
	if serverErr != nil {
		return fmt.Errorf("shutdown http server: %w", serverErr)
	}
	return closeErr
}
