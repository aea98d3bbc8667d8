package ticket_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ticket-store/internal/cache"
	"ticket-store/internal/ticket"
)

type failingCache struct{}

func (failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (failingCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingCache) Delete(ctx context.Context, key string) error {
	return errors.New("connection refused")
}

func newStore(t *testing.T) (*ticket.CacheStore, *cache.Memory) {
	t.Helper()
	mem := cache.NewMemory(0)
	t.Cleanup(func() { _ = mem.Close() })
	return ticket.NewCacheStore(mem, ""), mem
}

func samplePayload(expiresAt *time.Time) ticket.Payload {
	return ticket.Payload{
		Subject: "user-42",
		Claims: map[string]string{
			"email": "user@example.com",
		},
		Properties: map[string]string{
			"auth_method": "password",
		},
		IssuedAt:  time.Now().UTC().Truncate(time.Second),
		ExpiresAt: expiresAt,
	}
}

func TestRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	exp := time.Now().UTC().Add(1 * time.Hour).Truncate(time.Second)
	want := samplePayload(&exp)

	key, err := store.Store(ctx, want)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := store.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got == nil {
		t.Fatal("expected payload, got absent")
	}

	if got.Subject != want.Subject {
		t.Errorf("subject = %q, want %q", got.Subject, want.Subject)
	}
	if got.Claims["email"] != want.Claims["email"] {
		t.Errorf("claims = %v, want %v", got.Claims, want.Claims)
	}
	if got.Properties["auth_method"] != want.Properties["auth_method"] {
		t.Errorf("properties = %v, want %v", got.Properties, want.Properties)
	}
	if !got.IssuedAt.Equal(want.IssuedAt) {
		t.Errorf("issued_at = %v, want %v", got.IssuedAt, want.IssuedAt)
	}
	if got.ExpiresAt == nil || !got.ExpiresAt.Equal(*want.ExpiresAt) {
		t.Errorf("expires_at = %v, want %v", got.ExpiresAt, want.ExpiresAt)
	}
}

func TestKeyUniqueness(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		key, err := store.Store(ctx, samplePayload(nil))
		if err != nil {
			t.Fatalf("store %d: %v", i, err)
		}
		if seen[key] {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = true

		if !strings.HasPrefix(key, ticket.DefaultKeyPrefix) {
			t.Fatalf("key %q missing prefix %q", key, ticket.DefaultKeyPrefix)
		}
	}
}

func TestKeyPrefixOverride(t *testing.T) {
	mem := cache.NewMemory(0)
	t.Cleanup(func() { _ = mem.Close() })

	store := ticket.NewCacheStore(mem, "tenant-a:session:")

	key, err := store.Store(context.Background(), samplePayload(nil))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !strings.HasPrefix(key, "tenant-a:session:") {
		t.Fatalf("key %q missing tenant prefix", key)
	}
}

func TestRetrieveAbsent(t *testing.T) {
	store, _ := newStore(t)

	got, err := store.Retrieve(context.Background(), "ticket:unknown")
	if err != nil {
		t.Fatalf("expected no error for absent key, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected absent, got %+v", got)
	}
}

func TestRenewOverwrites(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	first := samplePayload(nil)
	key, err := store.Store(ctx, first)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	second := samplePayload(nil)
	second.Subject = "user-43"

	if err := store.Renew(ctx, key, second); err != nil {
		t.Fatalf("renew: %v", err)
	}

	got, err := store.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got == nil || got.Subject != "user-43" {
		t.Fatalf("expected renewed payload, got %+v", got)
	}
}

func TestRenewDropsExpiry(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	exp := time.Now().Add(100 * time.Millisecond)
	key, err := store.Store(ctx, samplePayload(&exp))
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	// Each write fully replaces the TTL policy: renewing without an
	// expiry makes the session non-expiring.
	if err := store.Renew(ctx, key, samplePayload(nil)); err != nil {
		t.Fatalf("renew: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	got, err := store.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got == nil {
		t.Fatal("session expired despite renew without expiry")
	}
}

func TestExpiryPropagation(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	exp := time.Now().Add(100 * time.Millisecond)
	key, err := store.Store(ctx, samplePayload(&exp))
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	got, err := store.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got != nil {
		t.Fatalf("expected absent after expiry, got %+v", got)
	}
}

func TestAlreadyExpiredPayloadIsWritable(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	exp := time.Now().Add(-1 * time.Hour)
	key, err := store.Store(ctx, samplePayload(&exp))
	if err != nil {
		t.Fatalf("store of expired payload should succeed, got %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	got, err := store.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired entry to be absent, got %+v", got)
	}
}

func TestNoExpiryPersists(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	key, err := store.Store(ctx, samplePayload(nil))
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	time.Sleep(150 * time.Millisecond)

	got, err := store.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got == nil {
		t.Fatal("session without expiry disappeared")
	}
}

func TestRemoveIdempotent(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	key, err := store.Store(ctx, samplePayload(nil))
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("second remove: %v", err)
	}

	got, err := store.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got != nil {
		t.Fatalf("expected absent after remove, got %+v", got)
	}
}

func TestCorruptionIsolation(t *testing.T) {
	store, mem := newStore(t)
	ctx := context.Background()

	key, err := store.Store(ctx, samplePayload(nil))
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	// Simulate corruption: overwrite the raw bytes behind the store's
	// back.
	if err := mem.Set(ctx, key, []byte("\x00not json"), 0); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	_, err = store.Retrieve(ctx, key)
	if !errors.Is(err, ticket.ErrDeserialization) {
		t.Fatalf("expected ErrDeserialization, got %v", err)
	}
}

func TestBackendFailureSurfaces(t *testing.T) {
	store := ticket.NewCacheStore(failingCache{}, "")
	ctx := context.Background()

	key, err := store.Store(ctx, samplePayload(nil))
	if !errors.Is(err, ticket.ErrBackendUnavailable) {
		t.Fatalf("store: expected ErrBackendUnavailable, got %v", err)
	}
	if key != "" {
		t.Fatalf("store returned key %q despite failure", key)
	}

	if _, err := store.Retrieve(ctx, "ticket:x"); !errors.Is(err, ticket.ErrBackendUnavailable) {
		t.Fatalf("retrieve: expected ErrBackendUnavailable, got %v", err)
	}

	if err := store.Remove(ctx, "ticket:x"); !errors.Is(err, ticket.ErrBackendUnavailable) {
		t.Fatalf("remove: expected ErrBackendUnavailable, got %v", err)
	}
}
