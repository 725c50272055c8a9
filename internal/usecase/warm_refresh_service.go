package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

const (
	defaultWarmRefreshLookback  = 24 * time.Hour
	defaultWarmRefreshBatchSize = 50
)

type WarmRefreshConfig struct {
	Lookback  time.Duration
	BatchSize int
	Category  match.Category
}

type WarmRefreshReport struct {
	Users   int
	Started int
	Skipped int
	Failed  int
}

type userRefresher interface {
	RefreshUser(ctx context.Context, u user.User, category match.Category) (bool, error)
}

// WarmRefreshService keeps recently active users fresh ahead of their next
// request. The gate still decides whether a cycle actually runs.
type WarmRefreshService struct {
	users     user.Repository
	refresher userRefresher
	cfg       WarmRefreshConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewWarmRefreshService(users user.Repository, refresher userRefresher, cfg WarmRefreshConfig, logger *logging.Logger) *WarmRefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = defaultWarmRefreshLookback
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultWarmRefreshBatchSize
	}
	if cfg.Category == "" {
		cfg.Category = match.CategoryOfficial
	}
	return &WarmRefreshService{
		users:     users,
		refresher: refresher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *WarmRefreshService) Run(ctx context.Context) (WarmRefreshReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WarmRefreshService.Run")
	defer span.End()

	since := s.now().UTC().Add(-s.cfg.Lookback)
	users, err := s.users.ListRecentlyRequested(ctx, since, s.cfg.BatchSize)
	if err != nil {
		return WarmRefreshReport{}, fmt.Errorf("list recently requested users: %w", err)
	}

	report := WarmRefreshReport{Users: len(users)}
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		started, err := s.refresher.RefreshUser(ctx, u, s.cfg.Category)
		if err != nil {
			report.Failed++
			s.logger.WarnContext(ctx, "warm refresh user failed", "user_id", u.ID, "error", err)
			continue
		}
		if started {
			report.Started++
		} else {
			report.Skipped++
		}
	}

	s.logger.InfoContext(ctx, "warm refresh finished", "users", report.Users, "started", report.Started, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// Job adapts Run to the cron runner.
func (s *WarmRefreshService) Job(ctx context.Context) {
	if _, err := s.Run(ctx); err != nil {
		s.logger.ErrorContext(ctx, "warm refresh failed", "error", err)
	}
}
