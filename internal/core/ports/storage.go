package ports

import "context"

// KeyValueStore is the durable storage that values are replaced in wholesale.
// Get returns domain.ErrKeyNotFound for an absent key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// WriteScheduler defers durable writes. Later values for the same key replace
// earlier pending ones.
type WriteScheduler interface {
	Schedule(key string, value []byte)
}
