package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/aggregate"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/platform/cache"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

func TestCacheInvalidator_DeletesEveryAggregateKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := cache.NewMemoryStore()
	for _, key := range aggregate.Keys(1, match.CategoryOfficial) {
		_ = backend.Set(ctx, key, []byte("{}"), time.Minute)
	}
	untouched := aggregate.CacheKey(aggregate.KindForm, 1, match.CategoryClassic, 10)
	_ = backend.Set(ctx, untouched, []byte("{}"), time.Minute)

	n := NewCacheInvalidator(backend, logging.NewNop()).Invalidate(ctx, 1, match.CategoryOfficial)
	if n != len(aggregate.Kinds())*len(aggregate.Windows()) {
		t.Fatalf("unexpected attempted count %d", n)
	}
	if backend.Len() != 1 {
		t.Fatalf("expected only the other category key to remain, got %d keys", backend.Len())
	}
	if _, ok, _ := backend.Get(ctx, untouched); !ok {
		t.Fatalf("other category must not be invalidated")
	}
}

type failingDeleter struct{ calls int }

func (d *failingDeleter) Delete(context.Context, ...string) (int, error) {
	d.calls++
	return 0, errors.New("redis down")
}

func TestCacheInvalidator_SwallowsBackendErrors(t *testing.T) {
	t.Parallel()

	deleter := &failingDeleter{}
	n := NewCacheInvalidator(deleter, logging.NewNop()).Invalidate(context.Background(), 5, match.CategoryManager)
	if n != len(aggregate.Keys(5, match.CategoryManager)) || deleter.calls != 1 {
		t.Fatalf("expected one attempted multi-key delete, got n=%d calls=%d", n, deleter.calls)
	}
}
