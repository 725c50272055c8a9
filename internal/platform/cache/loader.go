package cache

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-history/internal/platform/resilience"
)

// JSONLoader layers typed get-or-load on a Backend. Concurrent misses for the
// same key share one load.
type JSONLoader struct {
	backend Backend
	flight  resilience.SingleFlight
}

func NewJSONLoader(backend Backend) *JSONLoader {
	return &JSONLoader{backend: backend}
}

func (l *JSONLoader) Backend() Backend {
	return l.backend
}

// GetOrLoad returns the cached value for key or stores the loader's result
// for ttl. Cache read/write failures fall through to the loader.
func GetOrLoad[T any](ctx context.Context, l *JSONLoader, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if load == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" || l == nil || l.backend == nil {
		return load(ctx)
	}

	if value, ok := lookupJSON[T](ctx, l.backend, key); ok {
		return value, nil
	}

	value, _, err := resilience.Do(&l.flight, key, func() (T, error) {
		if cached, ok := lookupJSON[T](ctx, l.backend, key); ok {
			return cached, nil
		}
		loaded, err := load(ctx)
		if err != nil {
			return zero, err
		}
		if raw, err := sonic.Marshal(loaded); err == nil {
			_ = l.backend.Set(ctx, key, raw, ttl)
		}
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}
	return value, nil
}

func lookupJSON[T any](ctx context.Context, backend Backend, key string) (T, bool) {
	var out T
	raw, found, err := backend.Get(ctx, key)
	if err != nil || !found {
		return out, false
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}
