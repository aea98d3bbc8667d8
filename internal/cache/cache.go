package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key holds no live entry. An
// entry whose TTL has elapsed behaves identically to one that was
// never written.
var ErrMiss = errors.New("cache: key not found")

// Cache is the minimal expiring key-value contract the ticket store
// builds on. Implementations must be safe for concurrent use and must
// make each single-key operation atomic; nothing is assumed across
// keys or across operations.
//
// A ttl of zero means no expiration: the entry lives until Delete.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting an absent key is success.
	Delete(ctx context.Context, key string) error
}
