// Package cache defines the key/value store contract the licensing engine
// depends on, plus the production Redis implementation.
package cache

import (
	"context"
	"time"
)

// Result wraps a cache read so callers can distinguish a transport failure
// from a legitimate absence. Ok is false when the store itself failed; Found
// reports whether the key held a value.
type Result[T any] struct {
	Ok    bool
	Found bool
	Data  T
	Err   error
}

// failure builds a Result for a transport-level error.
func failure[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Store is the key/value contract consumed by the licensing engine.
// Implementations must treat absence as a valid answer, never an error.
type Store interface {
	// Get returns the raw value at key. Found=false means the key is unset.
	Get(ctx context.Context, key string) Result[[]byte]

	// Set writes value at key with the given TTL. A zero TTL means the key
	// does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Exists reports whether key is present, independently of its value.
	Exists(ctx context.Context, key string) Result[bool]

	// TryLock attempts to acquire an advisory lock at key with the given TTL.
	// Data=true means the lock was acquired. Contention is not an error.
	TryLock(ctx context.Context, key string, ttl time.Duration) Result[bool]

	// Unlock releases a lock previously acquired via TryLock. Best effort;
	// the lock TTL is the correctness backstop.
	Unlock(ctx context.Context, key string) error

	// Del removes key. Used by operational tooling to invalidate entries.
	Del(ctx context.Context, key string) error
}
