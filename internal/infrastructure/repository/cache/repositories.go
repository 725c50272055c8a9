package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/aggregate"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/syncstate"
	basecache "github.com/riskibarqy/match-history/internal/platform/cache"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

// AggregateRepository caches aggregates under the explicit keys of
// aggregate.CacheKey. Reads skip the cache, in both directions, while a
// fetch for the same (user, category) is in progress, so partially written
// data is never cached.
type AggregateRepository struct {
	next    aggregate.Repository
	loader  *basecache.JSONLoader
	markers syncstate.Markers
	ttl     time.Duration
	logger  *logging.Logger
}

func NewAggregateRepository(next aggregate.Repository, loader *basecache.JSONLoader, markers syncstate.Markers, ttl time.Duration, logger *logging.Logger) *AggregateRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &AggregateRepository{
		next:    next,
		loader:  loader,
		markers: markers,
		ttl:     ttl,
		logger:  logger,
	}
}

func (r *AggregateRepository) Form(ctx context.Context, userID int64, category match.Category, window int) (aggregate.Form, error) {
	return cachedAggregate(ctx, r, aggregate.KindForm, userID, category, window, func(ctx context.Context) (aggregate.Form, error) {
		return r.next.Form(ctx, userID, category, window)
	})
}

func (r *AggregateRepository) Shots(ctx context.Context, userID int64, category match.Category, window int) (aggregate.ShotSummary, error) {
	return cachedAggregate(ctx, r, aggregate.KindShots, userID, category, window, func(ctx context.Context) (aggregate.ShotSummary, error) {
		return r.next.Shots(ctx, userID, category, window)
	})
}

func (r *AggregateRepository) Players(ctx context.Context, userID int64, category match.Category, window int) (aggregate.PlayerSummary, error) {
	return cachedAggregate(ctx, r, aggregate.KindPlayers, userID, category, window, func(ctx context.Context) (aggregate.PlayerSummary, error) {
		return r.next.Players(ctx, userID, category, window)
	})
}

func cachedAggregate[T any](
	ctx context.Context,
	r *AggregateRepository,
	kind aggregate.Kind,
	userID int64,
	category match.Category,
	window int,
	load func(context.Context) (T, error),
) (T, error) {
	if !aggregate.ValidWindow(window) || r.fetching(ctx, syncstate.Key{UserID: userID, Category: category}) {
		return load(ctx)
	}
	return basecache.GetOrLoad(ctx, r.loader, aggregate.CacheKey(kind, userID, category, window), r.ttl, load)
}

func (r *AggregateRepository) fetching(ctx context.Context, key syncstate.Key) bool {
	if r.markers == nil {
		return false
	}
	active, err := r.markers.Has(ctx, key, syncstate.PhaseFetching)
	if err != nil {
		r.logger.WarnContext(ctx, "read fetching marker failed, bypassing aggregate cache", "key", key.String(), "error", err)
		return true
	}
	return active
}
