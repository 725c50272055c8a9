// Package syncstate describes the ephemeral per (user, category) coordination
// state of the request gate. Nothing here is persisted durably.
package syncstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
)

type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseLocked         Phase = "locked"
	PhaseFetching       Phase = "fetching"
	PhaseRecentlySynced Phase = "recently_synced"
)

// Key scopes all coordination state.
type Key struct {
	UserID   int64
	Category match.Category
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%s", k.UserID, k.Category)
}

// CacheKey is the backend key of one phase marker.
func (k Key) CacheKey(phase Phase) string {
	return "sync:" + string(phase) + ":" + k.String()
}

var ErrLeaseLost = errors.New("lease no longer held")

// Lease is a held lock. Release is a no-op once the lease expired and
// another holder took over.
type Lease interface {
	Release(ctx context.Context) error
}

// Locker is the mutual exclusion primitive injected into the gate. Its only
// job is to throttle duplicate upstream work.
type Locker interface {
	// Acquire tries once. acquired=false with a nil error means someone else
	// holds the key.
	Acquire(ctx context.Context, key Key, ttl time.Duration) (lease Lease, acquired bool, err error)
}

// Markers tracks the fetching and recently-synced phases.
type Markers interface {
	Mark(ctx context.Context, key Key, phase Phase, ttl time.Duration) error
	Clear(ctx context.Context, key Key, phase Phase) error
	Has(ctx context.Context, key Key, phase Phase) (bool, error)
	// Phase reports the single current phase, by precedence
	// recently_synced > fetching > locked > idle.
	Phase(ctx context.Context, key Key) (Phase, error)
}
