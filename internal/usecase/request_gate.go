package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/syncstate"
	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type GateConfig struct {
	LockTTL             time.Duration
	FetchingTTL         time.Duration
	RecentlySyncedTTL   time.Duration
	PollInterval        time.Duration
	PollMaxAttempts     int
	DefaultDesiredCount int
	MaxDesiredCount     int
}

func DefaultGateConfig() GateConfig {
	return GateConfig{
		LockTTL:             2 * time.Minute,
		FetchingTTL:         2 * time.Minute,
		RecentlySyncedTTL:   5 * time.Minute,
		PollInterval:        500 * time.Millisecond,
		PollMaxAttempts:     20,
		DefaultDesiredCount: 20,
		MaxDesiredCount:     100,
	}
}

func (cfg GateConfig) normalize() GateConfig {
	defaults := DefaultGateConfig()
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaults.LockTTL
	}
	if cfg.FetchingTTL <= 0 {
		cfg.FetchingTTL = defaults.FetchingTTL
	}
	if cfg.RecentlySyncedTTL <= 0 {
		cfg.RecentlySyncedTTL = defaults.RecentlySyncedTTL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaults.PollInterval
	}
	if cfg.PollMaxAttempts <= 0 {
		cfg.PollMaxAttempts = defaults.PollMaxAttempts
	}
	if cfg.MaxDesiredCount <= 0 {
		cfg.MaxDesiredCount = defaults.MaxDesiredCount
	}
	if cfg.DefaultDesiredCount <= 0 {
		cfg.DefaultDesiredCount = defaults.DefaultDesiredCount
	}
	cfg.DefaultDesiredCount = min(cfg.DefaultDesiredCount, cfg.MaxDesiredCount)
	return cfg
}

type EnsureInput struct {
	Nickname     string
	Category     match.Category
	DesiredCount int
}

type Availability struct {
	User     user.User
	Category match.Category
	Matches  []match.Record
	// Synced is true when this caller ran the fetch cycle.
	Synced bool
	// Degraded is true when the data may be stale: the poll ran out or the
	// upstream cycle failed.
	Degraded bool
}

type AsyncAvailability struct {
	Availability
	MoreDataIncoming bool
}

var errSyncCycleAborted = errors.New("sync cycle aborted")

type userResolver interface {
	Resolve(ctx context.Context, nickname string) (user.User, error)
}

type matchSyncer interface {
	Sync(ctx context.Context, u user.User, category match.Category, desired int) (SyncReport, error)
}

// RequestGate decides per request whether to serve local rows, run a fetch
// cycle, or wait for another caller's cycle. The lock only throttles upstream
// work; the storage uniqueness constraint keeps rows correct without it.
type RequestGate struct {
	users   userResolver
	matches match.Repository
	syncer  matchSyncer
	locker  syncstate.Locker
	markers syncstate.Markers
	cfg     GateConfig
	logger  *logging.Logger

	background conc.WaitGroup
}

func NewRequestGate(
	users userResolver,
	matches match.Repository,
	syncer matchSyncer,
	locker syncstate.Locker,
	markers syncstate.Markers,
	cfg GateConfig,
	logger *logging.Logger,
) *RequestGate {
	if logger == nil {
		logger = logging.Default()
	}
	return &RequestGate{
		users:   users,
		matches: matches,
		syncer:  syncer,
		locker:  locker,
		markers: markers,
		cfg:     cfg.normalize(),
		logger:  logger,
	}
}

func (g *RequestGate) EnsureAvailable(ctx context.Context, input EnsureInput) (Availability, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestGate.EnsureAvailable")
	defer span.End()

	u, category, desired, err := g.prepare(ctx, input)
	if err != nil {
		if errors.Is(err, ErrDependencyUnavailable) {
			return g.unresolved(ctx, input.Nickname, category, err), nil
		}
		return Availability{}, err
	}
	key := syncstate.Key{UserID: u.ID, Category: category}
	span.SetAttributes(attribute.String("sync.key", key.String()), attribute.Int("sync.desired", desired))

	out := Availability{User: u, Category: category}
	if g.recentlySynced(ctx, key) {
		return g.serveLocal(ctx, out, desired)
	}

	lease, acquired, err := g.locker.Acquire(ctx, key, g.cfg.LockTTL)
	if err != nil {
		g.logger.WarnContext(ctx, "acquire sync lock failed, serving local data", "key", key.String(), "error", err)
		out.Degraded = true
		return g.serveLocal(ctx, out, desired)
	}

	if acquired {
		// The cycle runs detached so a caller that stops waiting does not
		// abort the upstream work other callers are polling for.
		out.Synced = true
		done := make(chan error, 1)
		detached := context.WithoutCancel(ctx)
		g.background.Go(func() {
			cycleErr := errSyncCycleAborted
			defer func() { done <- cycleErr }()
			cycleErr = g.runCycle(detached, u, key, desired, lease)
		})
		select {
		case err := <-done:
			if err != nil {
				out.Degraded = true
			}
		case <-ctx.Done():
			return Availability{}, ctx.Err()
		}
		return g.serveLocal(ctx, out, desired)
	}

	ready, err := g.poll(ctx, key, desired)
	if err != nil {
		return Availability{}, err
	}
	if !ready {
		g.logger.InfoContext(ctx, "sync poll exhausted, serving local data", "key", key.String(), "attempts", g.cfg.PollMaxAttempts)
		out.Degraded = true
	}
	return g.serveLocal(ctx, out, desired)
}

// EnsureAvailableAsync returns local rows right away. When it wins the lock
// it starts the fetch cycle in the background; the cycle outlives ctx.
func (g *RequestGate) EnsureAvailableAsync(ctx context.Context, input EnsureInput) (AsyncAvailability, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestGate.EnsureAvailableAsync")
	defer span.End()

	u, category, desired, err := g.prepare(ctx, input)
	if err != nil {
		if errors.Is(err, ErrDependencyUnavailable) {
			return AsyncAvailability{Availability: g.unresolved(ctx, input.Nickname, category, err)}, nil
		}
		return AsyncAvailability{}, err
	}
	return g.ensureAsync(ctx, u, category, desired)
}

// RefreshUser starts a background cycle for an already resolved user without
// touching its last requested time. It reports whether a cycle was started.
func (g *RequestGate) RefreshUser(ctx context.Context, u user.User, category match.Category) (bool, error) {
	out, err := g.ensureAsync(ctx, u, category, g.cfg.DefaultDesiredCount)
	if err != nil {
		return false, err
	}
	return out.Synced, nil
}

func (g *RequestGate) ensureAsync(ctx context.Context, u user.User, category match.Category, desired int) (AsyncAvailability, error) {
	key := syncstate.Key{UserID: u.ID, Category: category}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("sync.key", key.String()))

	var err error
	out := AsyncAvailability{Availability: Availability{User: u, Category: category}}
	if g.recentlySynced(ctx, key) {
		out.Availability, err = g.serveLocal(ctx, out.Availability, desired)
		return out, err
	}

	lease, acquired, err := g.locker.Acquire(ctx, key, g.cfg.LockTTL)
	switch {
	case err != nil:
		g.logger.WarnContext(ctx, "acquire sync lock failed, serving local data", "key", key.String(), "error", err)
		out.Degraded = true
	case acquired:
		g.markFetching(ctx, key)
		out.Synced = true
		out.MoreDataIncoming = true
		detached := context.WithoutCancel(ctx)
		g.background.Go(func() {
			_ = g.runCycle(detached, u, key, desired, lease)
		})
	default:
		fetching, err := g.markers.Has(ctx, key, syncstate.PhaseFetching)
		if err != nil {
			g.logger.WarnContext(ctx, "read fetching marker failed", "key", key.String(), "error", err)
		}
		out.MoreDataIncoming = fetching
	}

	out.Availability, err = g.serveLocal(ctx, out.Availability, desired)
	return out, err
}

// IsFetching reports whether a fetch cycle is currently running for the key.
func (g *RequestGate) IsFetching(ctx context.Context, userID int64, category match.Category) (bool, error) {
	return g.markers.Has(ctx, syncstate.Key{UserID: userID, Category: category}, syncstate.PhaseFetching)
}

// Wait blocks until every detached fetch cycle returned.
func (g *RequestGate) Wait() {
	if recovered := g.background.WaitAndRecover(); recovered != nil {
		g.logger.Error("background sync panicked", "error", recovered.AsError())
	}
}

func (g *RequestGate) prepare(ctx context.Context, input EnsureInput) (user.User, match.Category, int, error) {
	category := input.Category
	if category == "" {
		category = match.CategoryOfficial
	}
	if _, err := match.ParseCategory(string(category)); err != nil {
		return user.User{}, "", 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if input.DesiredCount < 0 {
		return user.User{}, "", 0, fmt.Errorf("%w: desired count must not be negative", ErrInvalidInput)
	}
	desired := input.DesiredCount
	if desired == 0 {
		desired = g.cfg.DefaultDesiredCount
	}
	desired = min(desired, g.cfg.MaxDesiredCount)

	u, err := g.users.Resolve(ctx, input.Nickname)
	if err != nil {
		return user.User{}, category, desired, err
	}
	return u, category, desired, nil
}

// unresolved answers for a nickname whose upstream lookup failed
// transiently. Resolve only asks upstream on a local miss, so there are no
// stored rows to serve.
func (g *RequestGate) unresolved(ctx context.Context, nickname string, category match.Category, err error) Availability {
	g.logger.WarnContext(ctx, "resolve user failed, serving degraded", "nickname", nickname, "error", err)
	return Availability{
		User:     user.User{Nickname: user.NormalizeNickname(nickname)},
		Category: category,
		Matches:  []match.Record{},
		Degraded: true,
	}
}

// runCycle owns the lease and always releases it.
func (g *RequestGate) runCycle(ctx context.Context, u user.User, key syncstate.Key, desired int, lease syncstate.Lease) error {
	cleanupCtx := context.WithoutCancel(ctx)
	defer func() {
		if err := lease.Release(cleanupCtx); err != nil && !errors.Is(err, syncstate.ErrLeaseLost) {
			g.logger.WarnContext(cleanupCtx, "release sync lock failed", "key", key.String(), "error", err)
		}
	}()

	g.markFetching(ctx, key)
	report, err := g.syncer.Sync(ctx, u, key.Category, desired)
	if err != nil {
		g.logger.WarnContext(ctx, "sync cycle failed", "key", key.String(), "error", err)
		if clearErr := g.markers.Clear(cleanupCtx, key, syncstate.PhaseFetching); clearErr != nil {
			g.logger.WarnContext(cleanupCtx, "clear fetching marker failed", "key", key.String(), "error", clearErr)
		}
		return err
	}

	if err := g.markers.Mark(cleanupCtx, key, syncstate.PhaseRecentlySynced, g.cfg.RecentlySyncedTTL); err != nil {
		g.logger.WarnContext(cleanupCtx, "mark recently synced failed", "key", key.String(), "error", err)
		_ = g.markers.Clear(cleanupCtx, key, syncstate.PhaseFetching)
	}
	g.logger.DebugContext(ctx, "sync cycle completed", "key", key.String(), "inserted", report.Inserted)
	return nil
}

func (g *RequestGate) poll(ctx context.Context, key syncstate.Key, desired int) (bool, error) {
	for attempt := 0; ; attempt++ {
		if g.recentlySynced(ctx, key) {
			return true, nil
		}
		count, err := g.matches.CountByUserCategory(ctx, key.UserID, key.Category)
		if err != nil {
			return false, fmt.Errorf("count local matches: %w", err)
		}
		if count >= desired {
			return true, nil
		}
		if attempt >= g.cfg.PollMaxAttempts {
			return false, nil
		}
		if err := sleepContext(ctx, g.cfg.PollInterval); err != nil {
			return false, err
		}
	}
}

func (g *RequestGate) serveLocal(ctx context.Context, out Availability, desired int) (Availability, error) {
	records, err := g.matches.ListRecent(ctx, out.User.ID, out.Category, desired)
	if err != nil {
		return Availability{}, fmt.Errorf("list local matches: %w", err)
	}
	out.Matches = records
	return out, nil
}

func (g *RequestGate) recentlySynced(ctx context.Context, key syncstate.Key) bool {
	ok, err := g.markers.Has(ctx, key, syncstate.PhaseRecentlySynced)
	if err != nil {
		g.logger.WarnContext(ctx, "read recently synced marker failed", "key", key.String(), "error", err)
		return false
	}
	return ok
}

func (g *RequestGate) markFetching(ctx context.Context, key syncstate.Key) {
	if err := g.markers.Mark(ctx, key, syncstate.PhaseFetching, g.cfg.FetchingTTL); err != nil {
		g.logger.WarnContext(ctx, "mark fetching failed", "key", key.String(), "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
