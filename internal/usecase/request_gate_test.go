package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/syncstate"
	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestRequestGate_ConcurrentCallersShareOneFetch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.seedMatches(5)
	env.provider.release = make(chan struct{})

	ctx := context.Background()
	results := make([]Availability, 2)
	errs := make([]error, 2)
	var callers sync.WaitGroup
	for i := range results {
		callers.Add(1)
		go func() {
			defer callers.Done()
			results[i], errs[i] = env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Alpha", DesiredCount: 5})
		}()
	}

	waitFor(t, func() bool { return env.provider.docCalls.Load() > 0 })
	close(env.provider.release)
	callers.Wait()

	synced := 0
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i].Degraded {
			t.Fatalf("caller %d degraded", i)
		}
		if len(results[i].Matches) != 5 {
			t.Fatalf("caller %d expected 5 matches, got %d", i, len(results[i].Matches))
		}
		if results[i].Synced {
			synced++
		}
	}
	if synced != 1 {
		t.Fatalf("expected exactly one caller to run the cycle, got %d", synced)
	}
	// One cycle: two list pages of size 3 and one detail batch of 5.
	if got := env.provider.listCalls.Load(); got != 2 {
		t.Fatalf("expected 2 list page calls, got %d", got)
	}
	if got := env.provider.docCalls.Load(); got != 5 {
		t.Fatalf("expected 5 detail calls, got %d", got)
	}
}

func TestRequestGate_RecentlySyncedServesLocal(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.seedMatches(3)
	ctx := context.Background()

	first, err := env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Alpha", DesiredCount: 3})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if !first.Synced || len(first.Matches) != 3 {
		t.Fatalf("unexpected first availability %+v", first)
	}
	if first.Matches[0].MatchID != "m-02" {
		t.Fatalf("expected newest match first, got %s", first.Matches[0].MatchID)
	}

	second, err := env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Alpha", DesiredCount: 3})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.Synced || len(second.Matches) != 3 {
		t.Fatalf("unexpected second availability %+v", second)
	}
	if got := env.provider.listCalls.Load(); got != 1 {
		t.Fatalf("expected upstream list once, got %d", got)
	}

	phase, err := env.state.Phase(ctx, syncstate.Key{UserID: first.User.ID, Category: match.CategoryOfficial})
	if err != nil || phase != syncstate.PhaseRecentlySynced {
		t.Fatalf("expected recently synced phase, got %s err=%v", phase, err)
	}
}

type failingSyncer struct {
	calls int
}

func (s *failingSyncer) Sync(context.Context, user.User, match.Category, int) (SyncReport, error) {
	s.calls++
	return SyncReport{}, ErrDependencyUnavailable
}

func TestRequestGate_UpstreamFailureDegradesAndReleases(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.seedMatches(1)
	syncer := &failingSyncer{}
	gate := NewRequestGate(NewUserDirectory(env.users, env.provider, nil), env.matches, syncer, env.state, env.state, fastGateConfig(), logging.NewNop())

	ctx := context.Background()
	got, err := gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Alpha"})
	if err != nil {
		t.Fatalf("upstream failure must not surface, got %v", err)
	}
	if !got.Degraded || !got.Synced || len(got.Matches) != 0 {
		t.Fatalf("unexpected availability %+v", got)
	}

	key := syncstate.Key{UserID: got.User.ID, Category: match.CategoryOfficial}
	if phase, _ := env.state.Phase(ctx, key); phase != syncstate.PhaseIdle {
		t.Fatalf("expected idle after failed cycle, got %s", phase)
	}

	// Lock was released and nothing marked synced, so the next caller retries.
	if _, err := gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Alpha"}); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if syncer.calls != 2 {
		t.Fatalf("expected two cycles, got %d", syncer.calls)
	}
}

func TestRequestGate_PollExhaustionServesLocalDegraded(t *testing.T) {
	t.Parallel()

	cfg := fastGateConfig()
	cfg.PollMaxAttempts = 3
	env := newTestEnv(t, cfg)
	env.seedMatches(2)
	ctx := context.Background()

	u, err := NewUserDirectory(env.users, env.provider, nil).Resolve(ctx, "Alpha")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	lease, acquired, err := env.state.Acquire(ctx, syncstate.Key{UserID: u.ID, Category: match.CategoryOfficial}, time.Minute)
	if err != nil || !acquired {
		t.Fatalf("hold lock: acquired=%v err=%v", acquired, err)
	}
	defer func() { _ = lease.Release(ctx) }()

	got, err := env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Alpha", DesiredCount: 2})
	if err != nil {
		t.Fatalf("poll exhaustion must not surface, got %v", err)
	}
	if !got.Degraded || got.Synced {
		t.Fatalf("unexpected availability %+v", got)
	}
	if env.provider.listCalls.Load() != 0 {
		t.Fatalf("waiting caller must not call upstream")
	}
}

func TestRequestGate_PollStopsOnceLocalCountSuffices(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	ctx := context.Background()
	env.provider.addUser("Alpha", "u-a")
	u, _ := NewUserDirectory(env.users, env.provider, nil).Resolve(ctx, "Alpha")
	for _, id := range []string{"x1", "x2"} {
		if _, err := env.matches.Insert(ctx, match.Record{MatchID: id, UserID: u.ID, Category: match.CategoryOfficial, PlayedAt: time.Now()}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	lease, _, _ := env.state.Acquire(ctx, syncstate.Key{UserID: u.ID, Category: match.CategoryOfficial}, time.Minute)
	defer func() { _ = lease.Release(ctx) }()

	got, err := env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Alpha", DesiredCount: 2})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if got.Degraded || len(got.Matches) != 2 {
		t.Fatalf("unexpected availability %+v", got)
	}
}

func TestRequestGate_AsyncDetachesFromCaller(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.seedMatches(4)
	env.provider.release = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	got, err := env.gate.EnsureAvailableAsync(ctx, EnsureInput{Nickname: "Alpha", DesiredCount: 4})
	if err != nil {
		t.Fatalf("ensure async: %v", err)
	}
	cancel()

	if !got.MoreDataIncoming || !got.Synced {
		t.Fatalf("expected background cycle, got %+v", got)
	}
	if len(got.Matches) != 0 {
		t.Fatalf("expected no local matches yet, got %d", len(got.Matches))
	}
	fetching, err := env.gate.IsFetching(context.Background(), got.User.ID, match.CategoryOfficial)
	if err != nil || !fetching {
		t.Fatalf("expected fetching marker, got %v err=%v", fetching, err)
	}

	second, err := env.gate.EnsureAvailableAsync(context.Background(), EnsureInput{Nickname: "Alpha", DesiredCount: 4})
	if err != nil {
		t.Fatalf("second async: %v", err)
	}
	if second.Synced || !second.MoreDataIncoming {
		t.Fatalf("second caller should observe the running cycle, got %+v", second)
	}

	close(env.provider.release)
	env.gate.Wait()

	count, _ := env.matches.CountByUserCategory(context.Background(), got.User.ID, match.CategoryOfficial)
	if count != 4 {
		t.Fatalf("expected 4 stored matches after cancelled caller, got %d", count)
	}
	fetching, _ = env.gate.IsFetching(context.Background(), got.User.ID, match.CategoryOfficial)
	if fetching {
		t.Fatalf("fetching marker must be cleared")
	}

	third, err := env.gate.EnsureAvailableAsync(context.Background(), EnsureInput{Nickname: "Alpha", DesiredCount: 4})
	if err != nil {
		t.Fatalf("third async: %v", err)
	}
	if third.MoreDataIncoming || len(third.Matches) != 4 {
		t.Fatalf("unexpected third availability %+v", third)
	}
}

func TestRequestGate_CancelledWaiterDoesNotAbortCycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.seedMatches(3)
	env.provider.release = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Alpha", DesiredCount: 3})
		errCh <- err
	}()

	waitFor(t, func() bool { return env.provider.docCalls.Load() > 0 })
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the caller to stop with context.Canceled, got %v", err)
	}

	close(env.provider.release)
	env.gate.Wait()

	u, found, err := env.users.GetByNickname(context.Background(), "Alpha")
	if err != nil || !found {
		t.Fatalf("user not stored: found=%v err=%v", found, err)
	}
	count, _ := env.matches.CountByUserCategory(context.Background(), u.ID, match.CategoryOfficial)
	if count != 3 {
		t.Fatalf("expected the cycle to finish with 3 matches, got %d", count)
	}
	phase, _ := env.state.Phase(context.Background(), syncstate.Key{UserID: u.ID, Category: match.CategoryOfficial})
	if phase != syncstate.PhaseRecentlySynced {
		t.Fatalf("expected recently synced after the detached cycle, got %s", phase)
	}
}

func TestRequestGate_TransientResolveFailureServesDegraded(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.provider.ouidErr = fmt.Errorf("%w: game stats provider is temporarily unavailable", ErrDependencyUnavailable)
	ctx := context.Background()

	got, err := env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Alpha", Category: match.CategoryClassic})
	if err != nil {
		t.Fatalf("transient resolve failure must not surface, got %v", err)
	}
	if !got.Degraded || got.Synced || got.Matches == nil || len(got.Matches) != 0 {
		t.Fatalf("unexpected availability %+v", got)
	}
	if got.User.Nickname != "Alpha" || got.User.ID != 0 {
		t.Fatalf("expected only the requested nickname, got %+v", got.User)
	}
	if got.Category != match.CategoryClassic {
		t.Fatalf("expected the requested category, got %s", got.Category)
	}

	async, err := env.gate.EnsureAvailableAsync(ctx, EnsureInput{Nickname: "Alpha"})
	if err != nil {
		t.Fatalf("async transient resolve failure must not surface, got %v", err)
	}
	if !async.Degraded || async.MoreDataIncoming || len(async.Matches) != 0 {
		t.Fatalf("unexpected async availability %+v", async)
	}
	if env.provider.listCalls.Load() != 0 {
		t.Fatalf("no cycle may start for an unresolved user")
	}

	// Unknown nicknames still report not found.
	env.provider.ouidErr = nil
	if _, err := env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Nobody"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRequestGate_InputErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	ctx := context.Background()

	if _, err := env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Nobody"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank nickname, got %v", err)
	}
	if _, err := env.gate.EnsureAvailable(ctx, EnsureInput{Nickname: "Alpha", Category: "ranked"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for category, got %v", err)
	}
	if _, err := env.gate.EnsureAvailableAsync(ctx, EnsureInput{Nickname: "Alpha", DesiredCount: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for desired count, got %v", err)
	}
}
