package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/aggregate"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

// flakyInsertRepository fails Insert for one match id and delegates the rest.
type flakyInsertRepository struct {
	*memory.MatchRepository
	failMatchID string
}

func (r *flakyInsertRepository) Insert(ctx context.Context, record match.Record) (match.Record, error) {
	if record.MatchID == r.failMatchID {
		return match.Record{}, errors.New("connection reset by peer")
	}
	return r.MatchRepository.Insert(ctx, record)
}

func TestMatchSyncService_SyncStoresExtractsAndInvalidates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.seedMatches(4)
	alpha, _ := seedSides(t, env)
	ctx := context.Background()

	// One match is already stored; the cache holds a stale aggregate.
	storeDoc(t, env, alpha, "m-00", 1, 0)
	staleKey := aggregate.CacheKey(aggregate.KindForm, alpha.ID, match.CategoryOfficial, 20)
	_ = env.backend.Set(ctx, staleKey, []byte(`{"matches":1}`), time.Minute)

	report, err := env.syncer.Sync(ctx, alpha, match.CategoryOfficial, 4)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if report.Listed != 4 || report.Missing != 3 || report.Fetched != 3 || report.Inserted != 3 || report.Extracted != 3 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Failed != 0 || report.Duplicates != 0 {
		t.Fatalf("unexpected failures %+v", report)
	}
	if _, ok, _ := env.backend.Get(ctx, staleKey); ok {
		t.Fatalf("aggregate cache must be invalidated after inserts")
	}

	recent, _ := env.matches.ListRecent(ctx, alpha.ID, match.CategoryOfficial, 10)
	for _, r := range recent {
		if r.MatchID != "m-00" && r.ExtractedAt == nil {
			t.Fatalf("new record %s not extracted", r.MatchID)
		}
	}
}

func TestMatchSyncService_NothingNewSkipsInvalidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.seedMatches(2)
	alpha, _ := seedSides(t, env)
	ctx := context.Background()

	if _, err := env.syncer.Sync(ctx, alpha, match.CategoryOfficial, 2); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	key := aggregate.CacheKey(aggregate.KindShots, alpha.ID, match.CategoryOfficial, 10)
	_ = env.backend.Set(ctx, key, []byte(`{}`), time.Minute)

	report, err := env.syncer.Sync(ctx, alpha, match.CategoryOfficial, 2)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if report.Inserted != 0 || report.Missing != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, ok, _ := env.backend.Get(ctx, key); !ok {
		t.Fatalf("cache must survive a cycle without inserts")
	}
}

func TestMatchSyncService_CategoryComesFromListedCategory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.seedMatches(1)
	alpha, _ := seedSides(t, env)

	if _, err := env.syncer.Sync(context.Background(), alpha, match.CategoryClassic, 1); err != nil {
		t.Fatalf("sync: %v", err)
	}
	n, _ := env.matches.CountByUserCategory(context.Background(), alpha.ID, match.CategoryClassic)
	if n != 1 {
		t.Fatalf("expected the record under the listed category, got %d", n)
	}
}

func TestMatchSyncService_UnknownUserSideIsCountedAsFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.seedMatches(1)
	stranger := user.User{ID: 99, OUID: "u-a-but-not-in-doc"}
	env.provider.lists[stranger.OUID] = []string{"m-00"}

	report, err := env.syncer.Sync(context.Background(), stranger, match.CategoryOfficial, 1)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if report.Fetched != 1 || report.Failed != 1 || report.Inserted != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestMatchSyncService_StoreErrorStillExtractsAndInvalidatesInserted(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fastGateConfig())
	env.seedMatches(3)
	alpha, _ := seedSides(t, env)
	ctx := context.Background()
	logger := logging.NewNop()

	flaky := &flakyInsertRepository{MatchRepository: env.matches, failMatchID: "m-01"}
	syncer := NewMatchSyncService(
		NewMatchFetcher(env.provider, flaky, MatchFetcherConfig{WorkerCount: 4, PageSize: 3}, logger),
		NewMatchStore(flaky, logger),
		NewExtractionDispatcher(ExtractionModeInline, env.pipeline, nil, logger),
		NewCacheInvalidator(env.backend, logger),
		logger,
	)
	staleKey := aggregate.CacheKey(aggregate.KindForm, alpha.ID, match.CategoryOfficial, 20)
	_ = env.backend.Set(ctx, staleKey, []byte(`{"matches":0}`), time.Minute)

	report, err := syncer.Sync(ctx, alpha, match.CategoryOfficial, 3)
	if err == nil {
		t.Fatalf("expected the storage error to surface")
	}
	if report.Inserted != 2 || report.Extracted != 2 || report.Failed != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, ok, _ := env.backend.Get(ctx, staleKey); ok {
		t.Fatalf("aggregate cache must be invalidated for the matches that were inserted")
	}

	for _, id := range []string{"m-02", "m-00"} {
		record, found, _ := env.matches.GetByKey(ctx, match.Key{MatchID: id, UserID: alpha.ID})
		if !found {
			t.Fatalf("record %s not stored", id)
		}
		if record.ExtractedAt == nil {
			t.Fatalf("record %s stored but not extracted", id)
		}
		events, _ := env.shots.ListByMatch(ctx, record.ID)
		if len(events) == 0 {
			t.Fatalf("record %s has no shot events", id)
		}
	}
	if _, found, _ := env.matches.GetByKey(ctx, match.Key{MatchID: "m-01", UserID: alpha.ID}); found {
		t.Fatalf("failed insert must not leave a record")
	}

	// The next healthy cycle picks up the match that failed.
	report, err = env.syncer.Sync(ctx, alpha, match.CategoryOfficial, 3)
	if err != nil {
		t.Fatalf("retry sync: %v", err)
	}
	if report.Missing != 1 || report.Inserted != 1 || report.Extracted != 1 {
		t.Fatalf("unexpected retry report %+v", report)
	}
}
