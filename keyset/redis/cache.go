// Package rediscache provides a keyset.Cache backed by Redis, for
// sharing fetched signing keys across replicas of a service. Expiry is
// enforced by Redis TTL; size bounding is left to the Redis memory
// policy.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/redis/go-redis/v9"

	"github.com/keyward/tokengate/keyset"
)

// DefaultKeyPrefix namespaces cache entries in Redis.
const DefaultKeyPrefix = "tokengate:key:"

// Cache implements keyset.Cache on a Redis client. Errors from Redis are
// returned as-is; the keyset.Resolver treats them as misses and falls
// back to the key source.
type Cache struct {
	client redis.UniversalClient
	prefix string
	maxAge time.Duration
}

// Option configures a Cache.
type Option func(*Cache) error

// WithKeyPrefix sets the Redis key prefix. Defaults to DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *Cache) error {
		if prefix == "" {
			return fmt.Errorf("key prefix cannot be empty")
		}
		c.prefix = prefix
		return nil
	}
}

// WithMaxAge sets both the Redis TTL and the staleness bound applied on
// read. Defaults to keyset.DefaultMaxAge.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) error {
		if d <= 0 {
			return fmt.Errorf("max age must be positive, got %s", d)
		}
		c.maxAge = d
		return nil
	}
}

// New builds a Cache on the given Redis client.
func New(client redis.UniversalClient, opts ...Option) (*Cache, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}

	c := &Cache{
		client: client,
		prefix: DefaultKeyPrefix,
		maxAge: keyset.DefaultMaxAge,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// envelope is the stored form of a cached key: the fetch time plus the
// key serialized as JWK JSON.
type envelope struct {
	FetchedAt int64           `json:"fetched_at"`
	Key       json.RawMessage `json:"key"`
}

func encodeEnvelope(key jwk.Key, fetchedAt time.Time) ([]byte, error) {
	rawKey, err := json.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("encoding key: %w", err)
	}
	return json.Marshal(envelope{FetchedAt: fetchedAt.Unix(), Key: rawKey})
}

func decodeEnvelope(keyID string, raw []byte) (*keyset.CachedKey, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding cached key: %w", err)
	}
	key, err := jwk.ParseKey(env.Key)
	if err != nil {
		return nil, fmt.Errorf("parsing cached key: %w", err)
	}
	return &keyset.CachedKey{
		KeyID:     keyID,
		Key:       key,
		FetchedAt: time.Unix(env.FetchedAt, 0),
	}, nil
}

// Get returns the cached key for keyID, or (nil, nil) when absent or
// older than the max age.
func (c *Cache) Get(ctx context.Context, keyID string) (*keyset.CachedKey, error) {
	raw, err := c.client.Get(ctx, c.prefix+keyID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	cached, err := decodeEnvelope(keyID, raw)
	if err != nil {
		return nil, err
	}
	if time.Since(cached.FetchedAt) > c.maxAge {
		return nil, nil
	}
	return cached, nil
}

// Put stores key under keyID with the configured TTL.
func (c *Cache) Put(ctx context.Context, keyID string, key jwk.Key) error {
	payload, err := encodeEnvelope(key, time.Now())
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.prefix+keyID, payload, c.maxAge).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
