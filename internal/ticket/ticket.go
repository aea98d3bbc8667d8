package ticket

import (
	"context"
	"time"
)

// Payload is the server-held record of an authenticated session.
// The store treats it as an opaque bundle of claims and properties;
// the only field it interprets is ExpiresAt, which drives the cache
// entry's TTL. A nil ExpiresAt means the session never expires on its
// own and lives until Remove.
type Payload struct {
	Subject    string            `json:"subject,omitempty"`
	Claims     map[string]string `json:"claims,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	IssuedAt   time.Time         `json:"issued_at"`
	ExpiresAt  *time.Time        `json:"expires_at,omitempty"`
}

// Store defines how session tickets are persisted and retrieved.
// Implementations must remain stateless: all session state lives in
// the backing cache, so a single Store value is safe for concurrent use.
type Store interface {
	// Store persists a new session under a freshly generated key and
	// returns that key. The key is what the client holds in place of
	// the payload itself.
	Store(ctx context.Context, p Payload) (string, error)

	// Renew overwrites the session at key with p and resets the TTL
	// from p's expiry. Writing to an unknown key creates it; the
	// identity layer is the sole owner of key provenance.
	Renew(ctx context.Context, key string, p Payload) error

	// Retrieve returns the session stored at key, or (nil, nil) when
	// no session exists there. Absent is the normal outcome for an
	// expired, removed, or unknown key, not an error.
	Retrieve(ctx context.Context, key string) (*Payload, error)

	// Remove deletes the session at key. Removing an absent key is a
	// no-op.
	Remove(ctx context.Context, key string) error
}
