package keyset

import (
	"fmt"
	"net/http"
	"time"
)

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache) error

// WithMaxEntries sets the maximum number of keys held before
// oldest-fetched entries are evicted. Defaults to DefaultMaxEntries.
func WithMaxEntries(n int) MemoryCacheOption {
	return func(c *MemoryCache) error {
		if n <= 0 {
			return fmt.Errorf("max entries must be positive, got %d", n)
		}
		c.maxEntries = n
		return nil
	}
}

// WithMaxAge sets how long a cached key stays usable after it was
// fetched. Defaults to DefaultMaxAge.
func WithMaxAge(d time.Duration) MemoryCacheOption {
	return func(c *MemoryCache) error {
		if d <= 0 {
			return fmt.Errorf("max age must be positive, got %s", d)
		}
		c.maxAge = d
		return nil
	}
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithHTTPClient sets the HTTP client used for key-set fetches. The
// client's own timeout, if any, applies on top of the fetch timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithRateLimit sets the number of outbound key-set fetches allowed per
// minute. Defaults to DefaultRateLimit.
func WithRateLimit(perMinute int) ClientOption {
	return func(c *Client) error {
		if perMinute <= 0 {
			return fmt.Errorf("rate limit must be positive, got %d", perMinute)
		}
		c.limiter = newFetchLimiter(perMinute)
		return nil
	}
}

// WithRateLimitWait bounds how long a fetch waits for limiter admission
// before failing with "rate limited". Defaults to DefaultRateLimitWait.
func WithRateLimitWait(d time.Duration) ClientOption {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("rate limit wait must be positive, got %s", d)
		}
		c.rateLimitWait = d
		return nil
	}
}

// WithFetchTimeout bounds one key-set round trip. On expiry FetchKey
// fails with "timeout". Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) ClientOption {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("fetch timeout must be positive, got %s", d)
		}
		c.fetchTimeout = d
		return nil
	}
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver) error

// WithCache sets the Cache consulted before the Source, replacing the
// default MemoryCache. Use this to plug in a shared backend such as
// the Redis cache in keyset/redis.
func WithCache(cache Cache) ResolverOption {
	return func(r *Resolver) error {
		if cache == nil {
			return fmt.Errorf("cache cannot be nil")
		}
		r.cache = cache
		return nil
	}
}

// WithLogger sets the logger used to report cache degradation. Cache
// failures are logged, not returned; resolution proceeds via the Source.
func WithLogger(logger Logger) ResolverOption {
	return func(r *Resolver) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		r.logger = logger
		return nil
	}
}
