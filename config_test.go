package tokengate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigEnabled(t *testing.T) {
	testCases := []struct {
		name        string
		config      Config
		wantEnabled bool
	}{
		{
			name:        "both trust anchors set",
			config:      Config{Issuer: "https://issuer.example.com/", KeySetURI: "https://issuer.example.com/jwks"},
			wantEnabled: true,
		},
		{
			name:   "missing issuer",
			config: Config{KeySetURI: "https://issuer.example.com/jwks"},
		},
		{
			name:   "missing key set URI",
			config: Config{Issuer: "https://issuer.example.com/"},
		},
		{
			name: "zero value",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.wantEnabled, testCase.config.Enabled())
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("it reads the trust anchors and tuning", func(t *testing.T) {
		t.Setenv("TOKENGATE_ISSUER", "https://issuer.example.com/")
		t.Setenv("TOKENGATE_KEY_SET_URI", "https://issuer.example.com/jwks")
		t.Setenv("TOKENGATE_AUDIENCE", "my-api")
		t.Setenv("TOKENGATE_CACHE_MAX_ENTRIES", "8")
		t.Setenv("TOKENGATE_CACHE_MAX_AGE", "300s")
		t.Setenv("TOKENGATE_FETCH_RATE_LIMIT", "30")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)

		assert.True(t, cfg.Enabled())
		assert.Equal(t, "https://issuer.example.com/", cfg.Issuer)
		assert.Equal(t, "https://issuer.example.com/jwks", cfg.KeySetURI)
		assert.Equal(t, "my-api", cfg.Audience)
		assert.Equal(t, 8, cfg.CacheMaxEntries)
		assert.Equal(t, 300*time.Second, cfg.CacheMaxAge)
		assert.Equal(t, 30, cfg.FetchRateLimit)
	})

	t.Run("it applies the documented defaults", func(t *testing.T) {
		t.Setenv("TOKENGATE_ISSUER", "https://issuer.example.com/")
		t.Setenv("TOKENGATE_KEY_SET_URI", "https://issuer.example.com/jwks")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)

		assert.Equal(t, 5, cfg.CacheMaxEntries)
		assert.Equal(t, 600*time.Second, cfg.CacheMaxAge)
		assert.Equal(t, 10, cfg.FetchRateLimit)
		assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
		assert.Equal(t, time.Second, cfg.RateLimitWait)
	})

	t.Run("an empty environment yields a disabled config", func(t *testing.T) {
		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.False(t, cfg.Enabled())
	})
}
