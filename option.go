package tokengate

import (
	"errors"
	"net/http"
	"strings"
)

// Option configures a Gate. Options are applied by New before the
// default verification pipeline is assembled, so an injected verifier
// suppresses the default one.
type Option func(*Gate) error

// Option validation errors returned by New.
var (
	ErrVerifierNil        = errors.New("verifier cannot be nil")
	ErrErrorHandlerNil    = errors.New("error handler cannot be nil")
	ErrTokenExtractorNil  = errors.New("token extractor cannot be nil")
	ErrLoggerNil          = errors.New("logger cannot be nil")
	ErrMetricsNil         = errors.New("metrics cannot be nil")
	ErrTracerNil          = errors.New("tracer cannot be nil")
	ErrExcludedPathsEmpty = errors.New("excluded paths cannot be empty")
)

// WithVerifier replaces the default verification pipeline. Use it to
// share one verifier between gates or to substitute a fake in tests.
func WithVerifier(v TokenVerifier) Option {
	return func(g *Gate) error {
		if v == nil {
			return ErrVerifierNil
		}
		g.verifier = v
		return nil
	}
}

// WithErrorHandler sets the handler that writes the response for a
// rejected request.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(g *Gate) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		g.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function used to pull the bearer token
// out of the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(g *Gate) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		g.tokenExtractor = e
		return nil
	}
}

// WithCredentialsOptional lets requests that present no token at all
// continue without claims. Requests that present a token still go
// through full verification.
//
// Default: false (credentials required)
func WithCredentialsOptional(value bool) Option {
	return func(g *Gate) error {
		g.credentialsOptional = value
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests are
// authenticated like any other request.
//
// Default: true
func WithValidateOnOptions(value bool) Option {
	return func(g *Gate) error {
		g.validateOnOptions = value
		return nil
	}
}

// WithExcludedPaths bypasses authentication for requests whose URL
// matches one of the given paths. A path ending in "*" matches as a
// prefix; anything else must match the request path exactly.
func WithExcludedPaths(paths []string) Option {
	return func(g *Gate) error {
		if len(paths) == 0 {
			return ErrExcludedPathsEmpty
		}
		g.exclusionHandler = func(r *http.Request) bool {
			requestPath := r.URL.Path
			for _, p := range paths {
				if strings.HasSuffix(p, "*") {
					if strings.HasPrefix(requestPath, strings.TrimSuffix(p, "*")) {
						return true
					}
					continue
				}
				if requestPath == p {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithExclusionHandler bypasses authentication for requests the given
// predicate matches. It replaces any WithExcludedPaths configuration.
func WithExclusionHandler(h func(r *http.Request) bool) Option {
	return func(g *Gate) error {
		g.exclusionHandler = h
		return nil
	}
}

// WithLogger sets the structured logger used for per-decision
// diagnostics. The raw token and key material are never logged.
//
// Default: no logging
func WithLogger(l Logger) Option {
	return func(g *Gate) error {
		if l == nil {
			return ErrLoggerNil
		}
		g.logger = l
		return nil
	}
}

// WithMetrics sets the sink for decision counters and verification
// timings.
//
// Default: NoopMetrics
func WithMetrics(m Metrics) Option {
	return func(g *Gate) error {
		if m == nil {
			return ErrMetricsNil
		}
		g.metrics = m
		return nil
	}
}

// WithTracer sets the tracer that wraps each verification in a span.
//
// Default: NoopTracer
func WithTracer(t Tracer) Option {
	return func(g *Gate) error {
		if t == nil {
			return ErrTracerNil
		}
		g.tracer = t
		return nil
	}
}
