package gingate

import (
	"github.com/gin-gonic/gin"
)

// Option configures the gin middleware.
type Option func(*middlewareConfig)

// WithErrorHandler replaces the handler invoked for rejected requests.
// The handler is responsible for writing the response; the middleware
// aborts the chain afterwards either way.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(config *middlewareConfig) {
		config.errorHandler = handler
	}
}

// WithContextKey sets the gin context key the claims are stored under.
// Defaults to DefaultClaimsKey.
func WithContextKey(key string) Option {
	return func(config *middlewareConfig) {
		config.contextKey = key
	}
}
