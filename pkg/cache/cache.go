// Package cache stores serialized precomputation results between runs.
//
// Contracting every target of a large landscape is expensive and the result
// only depends on the instance and a few options, so the pipeline keys
// results by a hash of the instance file and keeps them in a [Cache]:
//
//   - [FileCache] keeps entries as files below a directory (CLI default)
//   - [RedisCache] shares entries between machines through Redis
//   - [NullCache] stores nothing (--no-cache)
//
// Keys are built by a [Keyer]; [ScopedKeyer] prefixes every key, e.g. to
// separate projects sharing one Redis instance.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLContraction = 30 * 24 * time.Hour
	TTLEval        = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Clear drops every entry of c if c supports it and returns the number of
// removed entries. Caches without [Clearer] report zero.
func Clear(ctx context.Context, c Cache) (int, error) {
	if cl, ok := c.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return 0, nil
}
