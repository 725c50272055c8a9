package cache

import (
	"context"
	"time"
)

// Backend is the byte-level key/value contract shared by the in-process and
// Redis stores. A non-positive ttl means the entry does not expire.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	// Delete removes the listed keys and returns how many existed.
	Delete(ctx context.Context, keys ...string) (int, error)
	// CompareAndDelete removes key only while it still holds expected.
	CompareAndDelete(ctx context.Context, key string, expected []byte) (bool, error)
}
