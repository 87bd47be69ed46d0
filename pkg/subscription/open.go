package subscription

import (
	"context"
	"fmt"
)

// Options selects and configures a store backend.
type Options struct {
	Backend       string // one of Backends; empty means memory
	Dir           string // file backend
	RedisURL      string // redis backend
	MongoURI      string // mongo backend
	MongoDatabase string
}

// Open creates the store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(opts.Dir)
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis store requires a redis url")
		}
		return DialRedisStore(ctx, opts.RedisURL, DefaultRedisPrefix)
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo store requires a mongodb uri")
		}
		return DialMongoStore(ctx, opts.MongoURI, opts.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
