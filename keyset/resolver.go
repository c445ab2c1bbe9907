package keyset

import (
	"context"
	"errors"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"golang.org/x/sync/singleflight"
)

// Logger is the subset of a structured logger the resolver uses. It is
// compatible with log/slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

// Resolver produces the public signing key for a key ID, consulting the
// Cache first and falling back to the Source on a miss. Concurrent misses
// for the same key ID are collapsed into a single fetch.
type Resolver struct {
	source Source
	cache  Cache
	logger Logger
	group  singleflight.Group
}

// NewResolver builds a Resolver around the given Source. With no options
// it uses a MemoryCache with default tuning.
func NewResolver(source Source, opts ...ResolverOption) (*Resolver, error) {
	if source == nil {
		return nil, errors.New("key source is required")
	}

	r := &Resolver{source: source}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.cache == nil {
		cache, err := NewMemoryCache()
		if err != nil {
			return nil, err
		}
		r.cache = cache
	}

	return r, nil
}

// Resolve returns the signing key for keyID. Cache errors degrade to a
// source fetch so a broken cache backend cannot take authentication down.
// Source failures are wrapped in *KeyResolutionError. No lock is held
// across the network call.
func (r *Resolver) Resolve(ctx context.Context, keyID string) (jwk.Key, error) {
	cached, err := r.cache.Get(ctx, keyID)
	if err != nil && r.logger != nil {
		r.logger.Warn("key cache read failed", "key_id", keyID, "error", err)
	}
	if cached != nil {
		return cached.Key, nil
	}

	v, err, _ := r.group.Do(keyID, func() (any, error) {
		key, err := r.source.FetchKey(ctx, keyID)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Put(ctx, keyID, key); err != nil && r.logger != nil {
			r.logger.Warn("key cache write failed", "key_id", keyID, "error", err)
		}
		return key, nil
	})
	if err != nil {
		return nil, &KeyResolutionError{KeyID: keyID, Err: err}
	}
	return v.(jwk.Key), nil
}
