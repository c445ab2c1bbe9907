package keyset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"golang.org/x/time/rate"
)

// Default client tuning, overridable per option.
const (
	// DefaultRateLimit is the default number of key-set fetches allowed
	// per minute.
	DefaultRateLimit = 10

	// DefaultRateLimitWait bounds how long a fetch waits for limiter
	// admission before failing with "rate limited". The client fails fast
	// rather than queueing indefinitely behind a burst of unknown key IDs.
	DefaultRateLimitWait = 1 * time.Second

	// DefaultFetchTimeout bounds one key-set round trip.
	DefaultFetchTimeout = 5 * time.Second
)

// maxKeySetBytes caps the response body read from the key-discovery
// endpoint. Real key sets are a few KB.
const maxKeySetBytes = 1 * 1024 * 1024

// Source produces the public signing key for a key ID. It is the one
// network-facing dependency of the resolution pipeline and is an
// interface so tests can substitute a fake.
type Source interface {
	FetchKey(ctx context.Context, keyID string) (jwk.Key, error)
}

// Client fetches signing keys from a JSON Web Key Set endpoint. Outbound
// requests are rate limited so a burst of tokens with unknown key IDs
// cannot hammer the identity provider. All failures are *KeyFetchError.
type Client struct {
	keySetURI     string
	httpClient    *http.Client
	limiter       *rate.Limiter
	rateLimitWait time.Duration
	fetchTimeout  time.Duration
}

// NewClient builds a Client for the given key-set URI.
func NewClient(keySetURI string, opts ...ClientOption) (*Client, error) {
	if keySetURI == "" {
		return nil, errors.New("key set URI is required")
	}
	if _, err := url.Parse(keySetURI); err != nil {
		return nil, fmt.Errorf("invalid key set URI: %w", err)
	}

	c := &Client{
		keySetURI:     keySetURI,
		httpClient:    &http.Client{},
		limiter:       newFetchLimiter(DefaultRateLimit),
		rateLimitWait: DefaultRateLimitWait,
		fetchTimeout:  DefaultFetchTimeout,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// newFetchLimiter builds a token bucket admitting perMinute fetches per
// minute with a burst of the same size.
func newFetchLimiter(perMinute int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// FetchKey retrieves the key set and returns the key whose ID matches
// keyID. It waits at most the configured rate-limit wait for limiter
// admission, and at most the configured fetch timeout for the round trip.
func (c *Client) FetchKey(ctx context.Context, keyID string) (jwk.Key, error) {
	if c.limiter != nil {
		waitCtx, cancel := context.WithTimeout(ctx, c.rateLimitWait)
		err := c.limiter.Wait(waitCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, &KeyFetchError{Reason: "canceled", Err: ctx.Err()}
			}
			return nil, &KeyFetchError{Reason: "rate limited", Err: err}
		}
	}

	set, err := c.fetchKeySet(ctx)
	if err != nil {
		return nil, err
	}

	key, ok := set.LookupKeyID(keyID)
	if !ok {
		return nil, &KeyFetchError{Reason: fmt.Sprintf("unknown key id %q", keyID)}
	}
	return key, nil
}

func (c *Client) fetchKeySet(ctx context.Context) (jwk.Set, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, c.keySetURI, nil)
	if err != nil {
		return nil, &KeyFetchError{Reason: "building request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &KeyFetchError{Reason: "timeout", Err: err}
		}
		return nil, &KeyFetchError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &KeyFetchError{Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	set, err := jwk.ParseReader(io.LimitReader(resp.Body, maxKeySetBytes))
	if err != nil {
		return nil, &KeyFetchError{Reason: "malformed key set", Err: err}
	}
	return set, nil
}
