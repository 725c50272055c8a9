// Package syncstate implements the gate's lock and phase markers on top of a
// cache backend. With the Redis backend the lock is shared by all replicas.
package syncstate

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/syncstate"
	"github.com/riskibarqy/match-history/internal/platform/cache"
	idgen "github.com/riskibarqy/match-history/internal/platform/id"
)

var markerValue = []byte("1")

type CacheState struct {
	backend cache.Backend
	tokens  idgen.Generator
}

var (
	_ syncstate.Locker  = (*CacheState)(nil)
	_ syncstate.Markers = (*CacheState)(nil)
)

func NewCacheState(backend cache.Backend, tokens idgen.Generator) *CacheState {
	if tokens == nil {
		tokens = idgen.NewRandomGenerator()
	}
	return &CacheState{backend: backend, tokens: tokens}
}

func (s *CacheState) Acquire(ctx context.Context, key syncstate.Key, ttl time.Duration) (syncstate.Lease, bool, error) {
	token, err := s.tokens.NewID()
	if err != nil {
		return nil, false, fmt.Errorf("generate lock token: %w", err)
	}

	cacheKey := key.CacheKey(syncstate.PhaseLocked)
	ok, err := s.backend.SetNX(ctx, cacheKey, []byte(token), ttl)
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", cacheKey, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &lease{backend: s.backend, key: cacheKey, token: []byte(token)}, true, nil
}

func (s *CacheState) Mark(ctx context.Context, key syncstate.Key, phase syncstate.Phase, ttl time.Duration) error {
	if err := s.backend.Set(ctx, key.CacheKey(phase), markerValue, ttl); err != nil {
		return fmt.Errorf("mark %s: %w", key.CacheKey(phase), err)
	}
	if phase == syncstate.PhaseRecentlySynced {
		return s.Clear(ctx, key, syncstate.PhaseFetching)
	}
	return nil
}

func (s *CacheState) Clear(ctx context.Context, key syncstate.Key, phase syncstate.Phase) error {
	if _, err := s.backend.Delete(ctx, key.CacheKey(phase)); err != nil {
		return fmt.Errorf("clear %s: %w", key.CacheKey(phase), err)
	}
	return nil
}

func (s *CacheState) Has(ctx context.Context, key syncstate.Key, phase syncstate.Phase) (bool, error) {
	_, found, err := s.backend.Get(ctx, key.CacheKey(phase))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key.CacheKey(phase), err)
	}
	return found, nil
}

func (s *CacheState) Phase(ctx context.Context, key syncstate.Key) (syncstate.Phase, error) {
	for _, phase := range []syncstate.Phase{syncstate.PhaseRecentlySynced, syncstate.PhaseFetching, syncstate.PhaseLocked} {
		ok, err := s.Has(ctx, key, phase)
		if err != nil {
			return "", err
		}
		if ok {
			return phase, nil
		}
	}
	return syncstate.PhaseIdle, nil
}

type lease struct {
	backend cache.Backend
	key     string
	token   []byte
}

func (l *lease) Release(ctx context.Context) error {
	ok, err := l.backend.CompareAndDelete(ctx, l.key, l.token)
	if err != nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	if !ok {
		return syncstate.ErrLeaseLost
	}
	return nil
}
