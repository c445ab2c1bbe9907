// Package gingate adapts a tokengate.Gate to a gin.HandlerFunc.
package gingate

import (
	"errors"

	"github.com/gin-gonic/gin"

	tokengate "github.com/keyward/tokengate"
	"github.com/keyward/tokengate/verifier"
)

// DefaultClaimsKey is the gin context key the verified claims are
// stored under.
const DefaultClaimsKey = "claims"

var (
	ErrMissingClaims = errors.New("no verified claims found in context")
	ErrInvalidClaims = errors.New("invalid claims type in context")
)

type middlewareConfig struct {
	errorHandler func(*gin.Context, error)
	contextKey   string
}

// New returns a gin middleware running the gate's decision for every
// request. Rejected requests are aborted with the gate's JSON rejection
// body; authenticated requests continue with the claims available both
// on the request context and under the gin context key.
//
// The gate must be built with tokengate.New before routes are set up;
// one gate can back multiple routers.
func New(gate *tokengate.Gate, opts ...Option) gin.HandlerFunc {
	config := &middlewareConfig{
		errorHandler: defaultErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		claims, err := gate.CheckRequest(c.Request)
		if err != nil {
			config.errorHandler(c, err)
			c.Abort()
			return
		}

		if claims != nil {
			c.Request = c.Request.Clone(tokengate.SetClaims(c.Request.Context(), claims))
			c.Set(config.contextKey, claims)
		}

		c.Next()
	}
}

func defaultErrorHandler(c *gin.Context, err error) {
	status := tokengate.RejectionStatus(err)
	c.AbortWithStatusJSON(status, tokengate.NewErrorResponse(status, tokengate.RejectionMessage(err)))
}

// GetClaims returns the verified claims stored by the middleware. Pass
// an empty contextKey to use DefaultClaimsKey.
func GetClaims(c *gin.Context, contextKey string) (*verifier.ClaimSet, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	raw, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	claims, ok := raw.(*verifier.ClaimSet)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
