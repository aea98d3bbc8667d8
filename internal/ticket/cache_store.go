package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-store/internal/cache"
)

// CacheStore is the cache-backed Store implementation. It holds only a
// handle to the cache client and the key prefix, both fixed at
// construction, so it is safe to share across concurrent callers.
type CacheStore struct {
	cache  cache.Cache
	prefix string
}

// NewCacheStore creates a ticket store on top of the given cache
// client. An empty prefix falls back to DefaultKeyPrefix.
func NewCacheStore(c cache.Cache, prefix string) *CacheStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &CacheStore{
		cache:  c,
		prefix: prefix,
	}
}

func (s *CacheStore) Store(ctx context.Context, p Payload) (string, error) {
	key := newSessionKey(s.prefix)

	if err := s.Renew(ctx, key, p); err != nil {
		return "", err
	}

	return key, nil
}

func (s *CacheStore) Renew(ctx context.Context, key string, p Payload) error {
	data, err := encodePayload(p)
	if err != nil {
		return err
	}

	if err := s.cache.Set(ctx, key, data, payloadTTL(p)); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return nil
}

func (s *CacheStore) Retrieve(ctx context.Context, key string) (*Payload, error) {
	data, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return nil, nil // no session
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return decodePayload(data)
}

func (s *CacheStore) Remove(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// payloadTTL derives the cache entry lifetime from the payload's
// expiry. No expiry means no TTL: the entry persists until Remove.
// An already-elapsed expiry still gets a minimal positive TTL so the
// write goes through and the backend's own sweep removes it promptly;
// zero is reserved for "no expiration" in the cache contract.
func payloadTTL(p Payload) time.Duration {
	if p.ExpiresAt == nil {
		return 0
	}

	ttl := time.Until(*p.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Millisecond
	}

	return ttl
}
