package keyset_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyward/tokengate/keyset"
)

func testKey(t *testing.T, seed string) jwk.Key {
	t.Helper()
	key, err := jwk.FromRaw([]byte(seed))
	require.NoError(t, err)
	return key
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("it reports a miss as nil without an error", func(t *testing.T) {
		cache, err := keyset.NewMemoryCache()
		require.NoError(t, err)

		cached, err := cache.Get(ctx, "unseen")
		assert.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("it returns what was stored, stamped with the fetch time", func(t *testing.T) {
		cache, err := keyset.NewMemoryCache()
		require.NoError(t, err)

		key := testKey(t, "key material")
		before := time.Now()
		require.NoError(t, cache.Put(ctx, "kid-1", key))

		cached, err := cache.Get(ctx, "kid-1")
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, "kid-1", cached.KeyID)
		assert.Equal(t, key, cached.Key)
		assert.False(t, cached.FetchedAt.Before(before))
	})

	t.Run("it treats entries past the max age as absent", func(t *testing.T) {
		cache, err := keyset.NewMemoryCache(keyset.WithMaxAge(50 * time.Millisecond))
		require.NoError(t, err)

		require.NoError(t, cache.Put(ctx, "kid-1", testKey(t, "key material")))
		time.Sleep(80 * time.Millisecond)

		cached, err := cache.Get(ctx, "kid-1")
		assert.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("it evicts the oldest-fetched entry once full", func(t *testing.T) {
		cache, err := keyset.NewMemoryCache(keyset.WithMaxEntries(2))
		require.NoError(t, err)

		for i := 1; i <= 3; i++ {
			kid := fmt.Sprintf("kid-%d", i)
			require.NoError(t, cache.Put(ctx, kid, testKey(t, kid)))
			time.Sleep(5 * time.Millisecond)
		}

		assert.Equal(t, 2, cache.Len())

		oldest, err := cache.Get(ctx, "kid-1")
		require.NoError(t, err)
		assert.Nil(t, oldest, "the first-fetched entry should have been evicted")

		for _, kid := range []string{"kid-2", "kid-3"} {
			cached, err := cache.Get(ctx, kid)
			require.NoError(t, err)
			assert.NotNil(t, cached, "%s should have survived eviction", kid)
		}
	})

	t.Run("it purges expired entries before evicting live ones", func(t *testing.T) {
		cache, err := keyset.NewMemoryCache(
			keyset.WithMaxEntries(2),
			keyset.WithMaxAge(30*time.Millisecond),
		)
		require.NoError(t, err)

		require.NoError(t, cache.Put(ctx, "stale", testKey(t, "stale")))
		time.Sleep(50 * time.Millisecond)

		require.NoError(t, cache.Put(ctx, "fresh-1", testKey(t, "fresh-1")))
		require.NoError(t, cache.Put(ctx, "fresh-2", testKey(t, "fresh-2")))

		cached, err := cache.Get(ctx, "fresh-1")
		require.NoError(t, err)
		assert.NotNil(t, cached, "the expired entry should have made room, not the live one")
	})

	t.Run("it is safe under concurrent readers and writers", func(t *testing.T) {
		cache, err := keyset.NewMemoryCache()
		require.NoError(t, err)

		key := testKey(t, "key material")

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			kid := fmt.Sprintf("kid-%d", i%3)
			go func() {
				defer wg.Done()
				_ = cache.Put(ctx, kid, key)
			}()
			go func() {
				defer wg.Done()
				_, _ = cache.Get(ctx, kid)
			}()
		}
		wg.Wait()
	})

	t.Run("it rejects non-positive tuning", func(t *testing.T) {
		_, err := keyset.NewMemoryCache(keyset.WithMaxEntries(0))
		assert.Error(t, err)

		_, err = keyset.NewMemoryCache(keyset.WithMaxAge(0))
		assert.Error(t, err)
	})
}
