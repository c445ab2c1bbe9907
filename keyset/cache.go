package keyset

import (
	"context"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// Default cache tuning. The defaults match the behavior of most identity
// providers' key-rotation windows and keep the cache small; override them
// with WithMaxEntries and WithMaxAge.
const (
	DefaultMaxEntries = 5
	DefaultMaxAge     = 600 * time.Second
)

// CachedKey is a public signing key held by a Cache, together with the
// time it was fetched from the key-discovery endpoint. Entries are
// immutable once stored.
type CachedKey struct {
	KeyID     string
	Key       jwk.Key
	FetchedAt time.Time
}

// Cache stores recently fetched signing keys by key ID. A miss is a normal
// outcome, reported as (nil, nil); errors are reserved for backends that
// can actually fail (for example a shared Redis cache) and are treated by
// the Resolver as misses.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, keyID string) (*CachedKey, error)
	Put(ctx context.Context, keyID string, key jwk.Key) error
}

// MemoryCache is the default in-process Cache. Entries older than the
// configured max age are reported absent on read; when a write pushes the
// entry count over the configured maximum, expired entries are purged and
// the oldest-fetched entries are evicted until the cache fits.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*CachedKey
	maxEntries int
	maxAge     time.Duration
}

// NewMemoryCache builds a MemoryCache. With no options it holds
// DefaultMaxEntries entries for DefaultMaxAge each.
func NewMemoryCache(opts ...MemoryCacheOption) (*MemoryCache, error) {
	c := &MemoryCache{
		entries:    make(map[string]*CachedKey),
		maxEntries: DefaultMaxEntries,
		maxAge:     DefaultMaxAge,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Get returns the cached key for keyID, or (nil, nil) when the key is
// absent or its entry has outlived the max age. Expired entries are not
// deleted here; they are purged on the next write that needs the room.
func (c *MemoryCache) Get(_ context.Context, keyID string) (*CachedKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[keyID]
	if !ok {
		return nil, nil
	}
	if time.Since(entry.FetchedAt) > c.maxAge {
		return nil, nil
	}
	return entry, nil
}

// Put stores key under keyID stamped with the current time, then enforces
// the size bound.
func (c *MemoryCache) Put(_ context.Context, keyID string, key jwk.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[keyID] = &CachedKey{
		KeyID:     keyID,
		Key:       key,
		FetchedAt: time.Now(),
	}

	if len(c.entries) > c.maxEntries {
		c.evictLocked()
	}
	return nil
}

// Len reports the number of entries currently held, including expired
// entries that have not been purged yet.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops expired entries first, then evicts oldest-fetched
// entries until the cache is back within its bound. Callers must hold mu.
func (c *MemoryCache) evictLocked() {
	now := time.Now()
	for id, entry := range c.entries {
		if now.Sub(entry.FetchedAt) > c.maxAge {
			delete(c.entries, id)
		}
	}

	for len(c.entries) > c.maxEntries {
		var oldestID string
		var oldestAt time.Time
		for id, entry := range c.entries {
			if oldestID == "" || entry.FetchedAt.Before(oldestAt) {
				oldestID = id
				oldestAt = entry.FetchedAt
			}
		}
		delete(c.entries, oldestID)
	}
}
