package subscription

import "context"

// Store is the interface for subscription storage backends.
type Store interface {
	// Get retrieves a subscription by ID.
	// Returns nil, nil if the subscription doesn't exist.
	Get(ctx context.Context, id string) (*Subscription, error)

	// Put creates or replaces a subscription.
	Put(ctx context.Context, sub *Subscription) error

	// Delete removes a subscription. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close() error
}

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported store backends.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo}
