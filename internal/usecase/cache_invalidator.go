package usecase

import (
	"context"

	"github.com/riskibarqy/match-history/internal/domain/aggregate"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

type cacheKeyDeleter interface {
	Delete(ctx context.Context, keys ...string) (int, error)
}

// CacheInvalidator drops every aggregate cached for (user, category) after
// new records land. It deletes the explicit key list in one call and never
// fails the write path.
type CacheInvalidator struct {
	cache  cacheKeyDeleter
	logger *logging.Logger
}

func NewCacheInvalidator(cache cacheKeyDeleter, logger *logging.Logger) *CacheInvalidator {
	if logger == nil {
		logger = logging.Default()
	}
	return &CacheInvalidator{cache: cache, logger: logger}
}

// Invalidate returns how many keys it attempted to delete.
func (i *CacheInvalidator) Invalidate(ctx context.Context, userID int64, category match.Category) int {
	keys := aggregate.Keys(userID, category)
	if i.cache == nil {
		return len(keys)
	}
	deleted, err := i.cache.Delete(ctx, keys...)
	if err != nil {
		i.logger.WarnContext(ctx, "invalidate aggregate cache failed", "user_id", userID, "category", category, "keys", len(keys), "error", err)
		return len(keys)
	}
	i.logger.DebugContext(ctx, "aggregate cache invalidated", "user_id", userID, "category", category, "deleted", deleted)
	return len(keys)
}
