// Package storage remembers which articles the relay already published so a
// later run does not publish them again. Entries expire after a TTL.
package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Store tracks relayed article ids.
type Store interface {
	// Unseen returns the ids in ids that are not marked, keeping their order.
	Unseen(ids []string) ([]string, error)
	// Mark records ids as relayed until the TTL passes.
	Mark(ids ...string) error
	Len() (int, error)
	Close() error
}

// Options controls retention for concrete stores. Now overrides the clock.
type Options struct {
	ArticleTTL      time.Duration
	CleanupInterval time.Duration
	Now             func() time.Time
}

const (
	TypeBBolt  = "bbolt"
	TypeMemory = "memory"
	TypeNone   = "none"

	defaultArticleTTL      = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeMemory:
		return newMemoryStore(opts), nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ArticleTTL <= 0 {
		opts.ArticleTTL = defaultArticleTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

// uniqueIDs drops blanks and repeats.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// noopStore never remembers anything, so every article is always new.
type noopStore struct{}

func (noopStore) Unseen(ids []string) ([]string, error) { return uniqueIDs(ids), nil }
func (noopStore) Mark(...string) error                  { return nil }
func (noopStore) Len() (int, error)                     { return 0, nil }
func (noopStore) Close() error                          { return nil }

// memoryStore keeps ids for the life of the process.
type memoryStore struct {
	mu      sync.Mutex
	opts    Options
	expires map[string]time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{opts: opts, expires: make(map[string]time.Time)}
}

func (m *memoryStore) Unseen(ids []string) ([]string, error) {
	now := m.opts.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, id := range uniqueIDs(ids) {
		exp, ok := m.expires[id]
		if ok && exp.After(now) {
			continue
		}
		delete(m.expires, id)
		out = append(out, id)
	}
	return out, nil
}

func (m *memoryStore) Mark(ids ...string) error {
	exp := m.opts.Now().Add(m.opts.ArticleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range uniqueIDs(ids) {
		m.expires[id] = exp
	}
	return nil
}

func (m *memoryStore) Len() (int, error) {
	now := m.opts.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, exp := range m.expires {
		if exp.After(now) {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) Close() error { return nil }
