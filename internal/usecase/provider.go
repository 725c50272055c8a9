package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
)

// GameStatsProvider is the upstream statistics API.
type GameStatsProvider interface {
	GetOUID(ctx context.Context, nickname string) (string, error)
	// ListMatchIDs returns one page, newest first.
	ListMatchIDs(ctx context.Context, ouid string, category match.Category, offset, limit int) ([]string, error)
	GetMatchDetail(ctx context.Context, matchID string) ([]byte, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}
