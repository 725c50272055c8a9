package aggregate

import (
	"context"

	"github.com/riskibarqy/match-history/internal/domain/match"
)

// Repository computes aggregates over the user's most recent window matches
// with plain queries.
type Repository interface {
	Form(ctx context.Context, userID int64, category match.Category, window int) (Form, error)
	Shots(ctx context.Context, userID int64, category match.Category, window int) (ShotSummary, error)
	Players(ctx context.Context, userID int64, category match.Category, window int) (PlayerSummary, error)
}
