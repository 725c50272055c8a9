package match

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicate is returned by Insert when the (match id, user) pair already
// exists, including when a concurrent writer won the race.
var ErrDuplicate = errors.New("match record already exists")

type Repository interface {
	// ExistingMatchIDs returns the subset of matchIDs already stored for the
	// user, in one query.
	ExistingMatchIDs(ctx context.Context, userID int64, matchIDs []string) (map[string]struct{}, error)
	Insert(ctx context.Context, record Record) (Record, error)
	GetByKey(ctx context.Context, key Key) (Record, bool, error)
	GetByID(ctx context.Context, id int64) (Record, bool, error)
	CountByUserCategory(ctx context.Context, userID int64, category Category) (int, error)
	ListRecent(ctx context.Context, userID int64, category Category, limit int) ([]Record, error)
	MarkExtracted(ctx context.Context, id int64) error
	// ListPendingExtraction returns records without extracted_at created
	// before the cutoff, oldest first.
	ListPendingExtraction(ctx context.Context, createdBefore time.Time, limit int) ([]Record, error)
}
