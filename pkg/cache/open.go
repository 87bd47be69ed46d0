package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by configuration.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Backends lists the supported cache backends.
var Backends = []string{BackendNone, BackendMemory, BackendFile, BackendRedis}

// DefaultRedisPrefix namespaces cache keys in a shared Redis database.
const DefaultRedisPrefix = "depwatch:cache:"

// Options selects and configures a cache backend.
type Options struct {
	Backend  string // one of Backends; empty means none
	Size     int    // memory backend entry limit
	Dir      string // file backend directory
	RedisURL string // redis backend
}

// Open creates the cache named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendMemory:
		return NewMemoryCache(opts.Size)
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache requires a directory")
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis cache requires a redis url")
		}
		return DialRedisCache(ctx, opts.RedisURL, DefaultRedisPrefix)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
