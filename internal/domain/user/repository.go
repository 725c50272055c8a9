package user

import (
	"context"
	"time"
)

// Repository persists users resolved from the upstream nickname lookup.
type Repository interface {
	GetByNickname(ctx context.Context, nickname string) (User, bool, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	// Upsert inserts by ouid or refreshes the nickname of an existing row.
	Upsert(ctx context.Context, u User) (User, error)
	ListByOUIDs(ctx context.Context, ouids []string) ([]User, error)
	TouchRequested(ctx context.Context, id int64, at time.Time) error
	ListRecentlyRequested(ctx context.Context, since time.Time, limit int) ([]User, error)
}
