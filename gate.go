package tokengate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/keyward/tokengate/keyset"
	"github.com/keyward/tokengate/verifier"
)

// TokenVerifier runs the verification pipeline for one bearer token.
// *verifier.Verifier satisfies it; tests and advanced wiring can
// substitute their own via WithVerifier.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*verifier.ClaimSet, error)
}

// Decision outcomes reported through metrics and trace tags.
const (
	outcomeAuthenticated = "authenticated"
	outcomeRejected      = "rejected"
	outcomeBypassed      = "bypassed"
)

// Gate authenticates inbound requests before they reach business
// handlers. Each request takes exactly one of three paths: authenticated
// (claims attached to the request context), rejected (401 written, no
// downstream handler runs), or bypassed (disabled gate, excluded path,
// or optional credentials absent).
//
// A Gate is immutable after New and safe for concurrent use; the
// signing-key cache and fetch rate limiter it owns are the only state
// shared between requests.
type Gate struct {
	verifier            TokenVerifier
	enabled             bool
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	credentialsOptional bool
	exclusionHandler    func(r *http.Request) bool
	logger              Logger
	metrics             Metrics
	tracer              Tracer
}

// New builds a Gate for the given config. When the config is enabled
// and no verifier is injected, New assembles the default pipeline: a
// rate-limited key-set client behind an in-memory key cache, feeding an
// RS256 verifier bound to the configured issuer and audience.
//
// A disabled config (missing issuer or key-set URI) yields a gate that
// passes every request through untouched.
func New(cfg Config, opts ...Option) (*Gate, error) {
	g := &Gate{
		enabled:           cfg.Enabled(),
		errorHandler:      DefaultErrorHandler,
		tokenExtractor:    AuthHeaderTokenExtractor,
		validateOnOptions: true,
		metrics:           &NoopMetrics{},
		tracer:            &NoopTracer{},
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if !g.enabled {
		return g, nil
	}

	if g.verifier == nil {
		v, err := buildVerifier(cfg, g.logger)
		if err != nil {
			return nil, err
		}
		g.verifier = v
	}

	return g, nil
}

// buildVerifier wires the key-resolution pipeline out of cfg. Zero
// tuning fields fall back to the keyset package defaults.
func buildVerifier(cfg Config, logger Logger) (*verifier.Verifier, error) {
	var cacheOpts []keyset.MemoryCacheOption
	if cfg.CacheMaxEntries > 0 {
		cacheOpts = append(cacheOpts, keyset.WithMaxEntries(cfg.CacheMaxEntries))
	}
	if cfg.CacheMaxAge > 0 {
		cacheOpts = append(cacheOpts, keyset.WithMaxAge(cfg.CacheMaxAge))
	}
	cache, err := keyset.NewMemoryCache(cacheOpts...)
	if err != nil {
		return nil, fmt.Errorf("building key cache: %w", err)
	}

	var clientOpts []keyset.ClientOption
	if cfg.FetchRateLimit > 0 {
		clientOpts = append(clientOpts, keyset.WithRateLimit(cfg.FetchRateLimit))
	}
	if cfg.RateLimitWait > 0 {
		clientOpts = append(clientOpts, keyset.WithRateLimitWait(cfg.RateLimitWait))
	}
	if cfg.FetchTimeout > 0 {
		clientOpts = append(clientOpts, keyset.WithFetchTimeout(cfg.FetchTimeout))
	}
	client, err := keyset.NewClient(cfg.KeySetURI, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("building key-set client: %w", err)
	}

	resolverOpts := []keyset.ResolverOption{keyset.WithCache(cache)}
	if logger != nil {
		resolverOpts = append(resolverOpts, keyset.WithLogger(logger))
	}
	resolver, err := keyset.NewResolver(client, resolverOpts...)
	if err != nil {
		return nil, fmt.Errorf("building key resolver: %w", err)
	}

	var verifierOpts []verifier.Option
	if cfg.Audience != "" {
		verifierOpts = append(verifierOpts, verifier.WithAudience(cfg.Audience))
	}
	v, err := verifier.New(resolver, cfg.Issuer, verifierOpts...)
	if err != nil {
		return nil, fmt.Errorf("building verifier: %w", err)
	}
	return v, nil
}

// Enabled reports whether the gate authenticates requests. A disabled
// gate passes everything through with no claims attached.
func (g *Gate) Enabled() bool {
	return g.enabled
}

// CheckJWT wraps next with the authentication decision. Rejected
// requests are answered by the gate's error handler and never reach
// next; authenticated requests continue with the verified claims in
// their context, retrievable via ClaimsFromContext.
func (g *Gate) CheckJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.CheckRequest(r)
		if err != nil {
			g.errorHandler(w, r, err)
			return
		}
		if claims != nil {
			r = r.Clone(SetClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// CheckRequest runs the decision for one HTTP request and returns the
// verified claims, (nil, nil) for a bypass, or the rejection error.
// Transport adapters that cannot wrap an http.Handler build on this.
func (g *Gate) CheckRequest(r *http.Request) (*verifier.ClaimSet, error) {
	if !g.enabled {
		g.countDecision(outcomeBypassed)
		return nil, nil
	}

	if g.exclusionHandler != nil && g.exclusionHandler(r) {
		if g.logger != nil {
			g.logger.Debug("skipping authentication for excluded request",
				"method", r.Method,
				"path", r.URL.Path)
		}
		g.countDecision(outcomeBypassed)
		return nil, nil
	}

	if !g.validateOnOptions && r.Method == http.MethodOptions {
		if g.logger != nil {
			g.logger.Debug("skipping authentication for OPTIONS request", "path", r.URL.Path)
		}
		g.countDecision(outcomeBypassed)
		return nil, nil
	}

	token, err := g.tokenExtractor(r)
	if err != nil {
		// The caller said something, just not a usable bearer
		// credential. Same rejection as a missing header.
		if g.logger != nil {
			g.logger.Warn("rejected request with malformed credentials",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path)
		}
		g.countDecision(outcomeRejected)
		return nil, missingError{details: err}
	}

	return g.CheckToken(r.Context(), token)
}

// CheckToken runs the decision for an already extracted bearer token.
// An empty token is rejected with ErrTokenMissing unless credentials
// are optional; a non-empty token goes through the full verification
// pipeline. The raw token is never logged.
func (g *Gate) CheckToken(ctx context.Context, rawToken string) (*verifier.ClaimSet, error) {
	if !g.enabled {
		g.countDecision(outcomeBypassed)
		return nil, nil
	}

	if rawToken == "" {
		if g.credentialsOptional {
			if g.logger != nil {
				g.logger.Debug("no credentials presented, continuing without identity")
			}
			g.countDecision(outcomeBypassed)
			return nil, nil
		}
		if g.logger != nil {
			g.logger.Warn("rejected request with no credentials")
		}
		g.countDecision(outcomeRejected)
		return nil, ErrTokenMissing
	}

	ctx, span := g.tracer.StartSpan(ctx, "tokengate.verify")
	defer span.Finish()

	start := time.Now()
	claims, err := g.verifier.Verify(ctx, rawToken)
	elapsed := time.Since(start)

	if err != nil {
		span.SetTag("outcome", outcomeRejected)
		g.metrics.ObserveHistogram(MetricVerifyDuration, elapsed.Seconds(),
			map[string]string{"outcome": outcomeRejected})
		g.countDecision(outcomeRejected)
		if g.logger != nil {
			g.logger.Warn("token verification failed", "error", err, "duration", elapsed)
		}
		return nil, invalidError{details: err}
	}

	span.SetTag("outcome", outcomeAuthenticated)
	g.metrics.ObserveHistogram(MetricVerifyDuration, elapsed.Seconds(),
		map[string]string{"outcome": outcomeAuthenticated})
	g.countDecision(outcomeAuthenticated)
	if g.logger != nil {
		g.logger.Debug("token verified",
			"subject", claims.Subject,
			"issuer", claims.Issuer,
			"duration", elapsed)
	}
	return claims, nil
}

func (g *Gate) countDecision(outcome string) {
	g.metrics.IncCounter(MetricDecisions, map[string]string{"outcome": outcome})
}
