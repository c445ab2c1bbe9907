package rediscache

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key, err := jwk.FromRaw(rsaKey.Public())
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, "kid-1"))

	fetchedAt := time.Now().Truncate(time.Second)

	payload, err := encodeEnvelope(key, fetchedAt)
	require.NoError(t, err)

	cached, err := decodeEnvelope("kid-1", payload)
	require.NoError(t, err)
	assert.Equal(t, "kid-1", cached.KeyID)
	assert.True(t, cached.FetchedAt.Equal(fetchedAt))

	thumbWant, err := key.Thumbprint(crypto.SHA256)
	require.NoError(t, err)
	thumbGot, err := cached.Key.Thumbprint(crypto.SHA256)
	require.NoError(t, err)
	assert.Equal(t, thumbWant, thumbGot, "the stored key must round-trip intact")
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	_, err := decodeEnvelope("kid-1", []byte("not json"))
	assert.ErrorContains(t, err, "decoding cached key")

	_, err = decodeEnvelope("kid-1", []byte(`{"fetched_at":1,"key":{"kty":"???"}}`))
	assert.ErrorContains(t, err, "parsing cached key")
}

func TestNewValidation(t *testing.T) {
	t.Run("it requires a client", func(t *testing.T) {
		_, err := New(nil)
		assert.EqualError(t, err, "redis client is required")
	})

	t.Run("it rejects an empty key prefix", func(t *testing.T) {
		_, err := New(redis.NewClient(&redis.Options{}), WithKeyPrefix(""))
		assert.Error(t, err)
	})

	t.Run("it rejects a non-positive max age", func(t *testing.T) {
		_, err := New(redis.NewClient(&redis.Options{}), WithMaxAge(0))
		assert.Error(t, err)
	})
}
