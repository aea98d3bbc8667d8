package cache

import (
	"context"
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("tickets")

// Bolt is a persistent single-node Cache backed by bbolt. bbolt has no
// native expiry, so each stored value carries an absolute deadline in
// an 8-byte big-endian header and expires lazily on read. Through the
// Cache contract an expired entry is indistinguishable from a deleted
// one.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt initializes or opens the database file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	deadline := int64(0)
	if ttl > 0 {
		deadline = time.Now().Add(ttl).UnixNano()
	}

	// Layout: 8 bytes big-endian deadline || raw value
	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(deadline))
	copy(buf[8:], value)

	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), buf)
	})
}

func (b *Bolt) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	var found, expired bool

	if err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		if len(v) < 8 {
			// Truncated by an external writer: nothing usable here.
			return nil
		}
		found = true

		deadline := int64(binary.BigEndian.Uint64(v[:8]))
		if deadline > 0 && time.Now().UnixNano() > deadline {
			expired = true
			return nil
		}

		out = append([]byte(nil), v[8:]...)
		return nil
	}); err != nil {
		return nil, err
	}

	if expired {
		// Reclaim the slot in its own transaction, re-reading the
		// deadline first: a Set committed after the View above must
		// not be erased by a stale delete.
		_ = b.db.Update(func(tx *bolt.Tx) error {
			bkt := tx.Bucket(boltBucket)
			v := bkt.Get([]byte(key))
			if v == nil || len(v) < 8 {
				return nil
			}
			deadline := int64(binary.BigEndian.Uint64(v[:8]))
			if deadline > 0 && time.Now().UnixNano() > deadline {
				return bkt.Delete([]byte(key))
			}
			return nil
		})
		return nil, ErrMiss
	}
	if !found {
		return nil, ErrMiss
	}

	return out, nil
}

func (b *Bolt) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	})
}
