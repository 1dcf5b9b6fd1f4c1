// Package cache is the acceleration layer in front of the persistent
// store. It is never the sole source of truth: a lost or unreachable
// cache degrades reads to store round trips, nothing more.
package cache

import (
	"context"
	"time"
)

// NoExpiry keeps an entry until it is explicitly deleted.
const NoExpiry time.Duration = 0

// Store is the shape shared by the in-process TTL cache and the
// optional networked redis tier. Values are JSON round-tripped so both
// implementations behave identically.
type Store interface {
	// Get unmarshals the entry into dest and reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePattern removes all keys matching the expression and
	// returns how many were dropped.
	DeletePattern(ctx context.Context, pattern string) (int, error)
	Close() error
}

// Key builds the typed cache key for an identifier, e.g. "room:m1".
func Key(kind, id string) string {
	return kind + ":" + id
}
