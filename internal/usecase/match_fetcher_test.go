package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/user"
	matchmock "github.com/riskibarqy/match-history/internal/mocks/domain/match"
	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestMatchFetcher_ListMatchIDsPagesAndDeduplicates(t *testing.T) {
	t.Parallel()

	provider := newStubProvider()
	for _, id := range []string{"a", "b", "b", "c", "", "d", "e"} {
		provider.lists["u-a"] = append(provider.lists["u-a"], id)
	}
	fetcher := NewMatchFetcher(provider, nil, MatchFetcherConfig{PageSize: 3}, logging.NewNop())

	ids, err := fetcher.ListMatchIDs(context.Background(), user.User{OUID: "u-a"}, match.CategoryOfficial, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"a", "b", "c", "d", "e"}
	if !equalStrings(ids, want) {
		t.Fatalf("got %v want %v", ids, want)
	}
	// Pages of 3, 3, then a short page of 1.
	if got := provider.listCalls.Load(); got != 3 {
		t.Fatalf("expected 3 page calls, got %d", got)
	}

	none, err := fetcher.ListMatchIDs(context.Background(), user.User{OUID: "u-a"}, match.CategoryOfficial, 0)
	if err != nil || len(none) != 0 {
		t.Fatalf("zero desired must not call upstream: %v %v", none, err)
	}
}

func TestMatchFetcher_FetchMissingSkipsStoredAndKeepsOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	alpha, _ := seedSides(t, env)
	base := time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("f-%d", i)
		env.provider.addMatch("u-a", id, matchDoc(id, base.Add(time.Duration(i)*time.Minute), 0, 0))
	}
	storeDoc(t, env, alpha, "f-1", 0, 0)
	env.provider.failures["f-3"] = fmt.Errorf("%w: upstream 503", ErrDependencyUnavailable)
	env.provider.docs["f-4"] = `{"matchId":`

	fetcher := NewMatchFetcher(env.provider, env.matches, MatchFetcherConfig{WorkerCount: 3}, logging.NewNop())
	ids := []string{"f-0", "f-1", "f-2", "f-3", "f-4", "f-5", "f-missing"}
	batch, err := fetcher.FetchMissing(context.Background(), alpha, ids)
	if err != nil {
		t.Fatalf("fetch missing: %v", err)
	}

	if batch.Requested != 7 || batch.AlreadyStored != 1 {
		t.Fatalf("unexpected counts %+v", batch)
	}
	var got []string
	for _, m := range batch.Matches {
		got = append(got, m.MatchID)
	}
	if !equalStrings(got, []string{"f-0", "f-2", "f-5"}) {
		t.Fatalf("unexpected fetched order %v", got)
	}
	if len(batch.Failures) != 3 {
		t.Fatalf("expected 3 failures, got %+v", batch.Failures)
	}
	checks := map[string]error{"f-3": ErrDependencyUnavailable, "f-4": ErrMalformedPayload, "f-missing": ErrNotFound}
	for _, f := range batch.Failures {
		if !errors.Is(f.Err, checks[f.MatchID]) {
			t.Fatalf("failure %s: expected %v, got %v", f.MatchID, checks[f.MatchID], f.Err)
		}
	}
	// f-1 was never requested upstream.
	if got := env.provider.docCalls.Load(); got != 6 {
		t.Fatalf("expected 6 detail calls, got %d", got)
	}
}

func TestMatchFetcher_MembershipCheckIsOneQueryUsingMockery(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	fetcher := NewMatchFetcher(newStubProvider(), repo, MatchFetcherConfig{}, logging.NewNop())
	ids := []string{"x", "y"}

	repo.On("ExistingMatchIDs", mock.Anything, int64(7), ids).
		Return(map[string]struct{}{"x": {}, "y": {}}, nil).
		Once()

	batch, err := fetcher.FetchMissing(context.Background(), user.User{ID: 7, OUID: "u"}, ids)
	if err != nil {
		t.Fatalf("fetch missing: %v", err)
	}
	if batch.AlreadyStored != 2 || len(batch.Matches) != 0 || len(batch.Failures) != 0 {
		t.Fatalf("unexpected batch %+v", batch)
	}
}

func TestMatchFetcher_MembershipErrorFailsBatchUsingMockery(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	fetcher := NewMatchFetcher(newStubProvider(), repo, MatchFetcherConfig{}, logging.NewNop())
	repo.On("ExistingMatchIDs", mock.Anything, int64(7), []string{"x"}).
		Return(nil, errors.New("db down")).
		Once()

	if _, err := fetcher.FetchMissing(context.Background(), user.User{ID: 7}, []string{"x"}); err == nil {
		t.Fatalf("expected error")
	}
}
