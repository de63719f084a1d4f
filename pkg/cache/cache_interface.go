package cache

import (
	"context"
	"time"
)

// Cache is the contract for the read cache in front of Postgres.
// Implementations must treat a miss as (false, nil), never as an error.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found = false means cache miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON encoded) with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern (e.g. "categories:*").
	DeletePattern(ctx context.Context, pattern string) error

	// Incr atomically increments an integer counter (created at 0) and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)

	Ping(ctx context.Context) error
}
