// Package cache provides byte-oriented caching backends for HTTP responses
// fetched from repository providers and package registries.
//
// Backends:
//   - [NullCache]: never stores anything (caching disabled)
//   - [MemoryCache]: bounded in-process LRU
//   - [FileCache]: one JSON file per entry, for CLI usage
//   - [RedisCache]: shared cache for multiple server replicas
//
// All backends honor a per-entry TTL and are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired entry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}
