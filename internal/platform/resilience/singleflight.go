package resilience

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SingleFlight deduplicates concurrent calls for the same key.
type SingleFlight struct {
	group singleflight.Group
}

// Do runs fn once per key for all concurrent callers. shared reports whether
// the result was handed to more than one caller.
func Do[T any](g *SingleFlight, key string, fn func() (T, error)) (value T, shared bool, err error) {
	raw, err, shared := g.group.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		return value, shared, err
	}
	value, _ = raw.(T)
	return value, shared, nil
}

// DoContext is Do for callers that may give up independently. fn runs on a
// context detached from the caller that started it, so one caller's
// cancellation never fails the others. Each caller stops waiting when its own
// ctx ends; the shared call keeps running for the rest.
func DoContext[T any](ctx context.Context, g *SingleFlight, key string, fn func(context.Context) (T, error)) (value T, shared bool, err error) {
	detached := context.WithoutCancel(ctx)
	ch := g.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case <-ctx.Done():
		return value, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return value, res.Shared, res.Err
		}
		value, _ = res.Val.(T)
		return value, res.Shared, nil
	}
}

// Forget drops an in-flight key so the next caller starts a fresh call.
func (g *SingleFlight) Forget(key string) {
	g.group.Forget(key)
}
