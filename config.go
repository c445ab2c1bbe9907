package tokengate

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config carries the trust anchors and tuning for a Gate. It is consumed
// once by New and immutable afterwards.
//
// Issuer and KeySetURI are the trust anchors; when either is empty the
// gate is disabled and every request passes through unauthenticated.
// The zero value of any tuning field means "use the default".
type Config struct {
	// Issuer is the trusted token issuer, compared byte for byte against
	// the token's issuer claim. ENV: TOKENGATE_ISSUER
	Issuer string `env:"TOKENGATE_ISSUER"`

	// KeySetURI is the URL of the issuer's JSON Web Key Set endpoint.
	// ENV: TOKENGATE_KEY_SET_URI
	KeySetURI string `env:"TOKENGATE_KEY_SET_URI"`

	// Audience, when non-empty, must appear in the token's audience
	// claim. ENV: TOKENGATE_AUDIENCE
	Audience string `env:"TOKENGATE_AUDIENCE"`

	// CacheMaxEntries bounds the signing-key cache.
	// ENV: TOKENGATE_CACHE_MAX_ENTRIES
	CacheMaxEntries int `env:"TOKENGATE_CACHE_MAX_ENTRIES,default=5"`

	// CacheMaxAge is how long a fetched signing key stays usable.
	// ENV: TOKENGATE_CACHE_MAX_AGE
	CacheMaxAge time.Duration `env:"TOKENGATE_CACHE_MAX_AGE,default=600s"`

	// FetchRateLimit caps key-set fetches per minute.
	// ENV: TOKENGATE_FETCH_RATE_LIMIT
	FetchRateLimit int `env:"TOKENGATE_FETCH_RATE_LIMIT,default=10"`

	// FetchTimeout bounds one key-set round trip.
	// ENV: TOKENGATE_FETCH_TIMEOUT
	FetchTimeout time.Duration `env:"TOKENGATE_FETCH_TIMEOUT,default=5s"`

	// RateLimitWait bounds how long a key-set fetch waits for rate-limit
	// admission before failing. ENV: TOKENGATE_RATE_LIMIT_WAIT
	RateLimitWait time.Duration `env:"TOKENGATE_RATE_LIMIT_WAIT,default=1s"`
}

// Enabled reports whether the config describes an active gate. Both the
// issuer and the key-set URI must be set; a gate built from a disabled
// config lets every request through untouched.
func (c Config) Enabled() bool {
	return c.Issuer != "" && c.KeySetURI != ""
}

// ConfigFromEnv populates a Config from TOKENGATE_* environment
// variables, falling back to the documented defaults. Unset trust
// anchors are not an error; they produce a disabled config.
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := envdecode.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decoding tokengate config from environment: %w", err)
	}
	return c, nil
}
