package echogate

import (
	"github.com/labstack/echo/v4"
)

// Option configures the echo middleware.
type Option func(*middlewareConfig)

// WithErrorHandler replaces the handler invoked for rejected requests.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(config *middlewareConfig) {
		config.errorHandler = handler
	}
}

// WithContextKey sets the echo context key the claims are stored under.
// Defaults to DefaultClaimsKey.
func WithContextKey(key string) Option {
	return func(config *middlewareConfig) {
		config.contextKey = key
	}
}
