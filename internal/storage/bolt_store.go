package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	relayedBucket    = "relayed_articles"
	expiryValueBytes = 8
)

var errBucketMissing = errors.New("relayed bucket missing")

// boltStore keeps relayed ids in a single bucket; each value is the entry's
// expiry as big-endian unix seconds.
type boltStore struct {
	db          *bolt.DB
	opts        Options
	cleanupMu   sync.Mutex
	lastCleanup atomic.Int64
}

func openBolt(path string, opts Options) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(relayedBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{db: db, opts: opts}
	store.lastCleanup.Store(opts.Now().Unix())
	return store, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Unseen reads in one transaction. Expired entries count as unseen and are
// left for the periodic sweep.
func (b *boltStore) Unseen(ids []string) ([]string, error) {
	now := b.opts.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, err
	}

	var out []string
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(relayedBucket))
		if bucket == nil {
			return errBucketMissing
		}
		for _, id := range uniqueIDs(ids) {
			if expiry, ok := decodeExpiry(bucket.Get([]byte(id))); ok && expiry.After(now) {
				continue
			}
			out = append(out, id)
		}
		return nil
	})
	return out, err
}

// Mark writes all ids in one transaction.
func (b *boltStore) Mark(ids ...string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	now := b.opts.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(now.Add(b.opts.ArticleTTL).Unix()))

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(relayedBucket))
		if bucket == nil {
			return errBucketMissing
		}
		for _, id := range ids {
			if err := bucket.Put([]byte(id), buf); err != nil {
				return fmt.Errorf("mark %s: %w", id, err)
			}
		}
		return nil
	})
}

// Len counts live entries.
func (b *boltStore) Len() (int, error) {
	now := b.opts.Now()
	n := 0
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(relayedBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.ForEach(func(_, v []byte) error {
			if expiry, ok := decodeExpiry(v); ok && expiry.After(now) {
				n++
			}
			return nil
		})
	})
	return n, err
}

// maybeCleanupExpired sweeps expired ids at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.opts.CleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.opts.CleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(relayedBucket))
		if bucket == nil {
			return errBucketMissing
		}

		// Deleting through a live cursor skips the following key.
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if expiry, ok := decodeExpiry(v); !ok || !expiry.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
