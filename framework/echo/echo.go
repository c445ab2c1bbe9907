// Package echogate adapts a tokengate.Gate to an echo.MiddlewareFunc.
package echogate

import (
	"github.com/labstack/echo/v4"

	tokengate "github.com/keyward/tokengate"
	"github.com/keyward/tokengate/verifier"
)

// DefaultClaimsKey is the echo context key the verified claims are
// stored under.
const DefaultClaimsKey = "claims"

type middlewareConfig struct {
	errorHandler func(echo.Context, error) error
	contextKey   string
}

// New returns an echo middleware running the gate's decision for every
// request. Rejected requests are answered with the gate's JSON
// rejection body; authenticated requests continue with the claims
// available both on the request context and under the echo context key.
func New(gate *tokengate.Gate, opts ...Option) echo.MiddlewareFunc {
	config := &middlewareConfig{
		errorHandler: defaultErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := gate.CheckRequest(c.Request())
			if err != nil {
				return config.errorHandler(c, err)
			}

			if claims != nil {
				c.SetRequest(c.Request().Clone(tokengate.SetClaims(c.Request().Context(), claims)))
				c.Set(config.contextKey, claims)
			}

			return next(c)
		}
	}
}

func defaultErrorHandler(c echo.Context, err error) error {
	status := tokengate.RejectionStatus(err)
	return c.JSON(status, tokengate.NewErrorResponse(status, tokengate.RejectionMessage(err)))
}

// GetClaims returns the verified claims stored by the middleware, or
// false when the request carried no verified token. Pass an empty
// contextKey to use DefaultClaimsKey.
func GetClaims(c echo.Context, contextKey string) (*verifier.ClaimSet, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, ok := c.Get(contextKey).(*verifier.ClaimSet)
	return claims, ok
}
