package tokengate

import (
	"context"

	"github.com/keyward/tokengate/verifier"
)

// contextKey is an unexported type for context keys so no other package
// can collide with them.
type contextKey int

const (
	userKey contextKey = iota
	authInfoKey
)

// SetClaims stores the validated claims in the context under both the
// user and authInfo keys. Handlers ported from stacks that look identity
// up under either name keep working.
func SetClaims(ctx context.Context, claims *verifier.ClaimSet) context.Context {
	ctx = context.WithValue(ctx, userKey, claims)
	return context.WithValue(ctx, authInfoKey, claims)
}

// ClaimsFromContext returns the authenticated identity stored under the
// user key, or false when the request carried no verified token.
func ClaimsFromContext(ctx context.Context) (*verifier.ClaimSet, bool) {
	claims, ok := ctx.Value(userKey).(*verifier.ClaimSet)
	return claims, ok
}

// AuthInfoFromContext returns the authenticated identity stored under
// the authInfo key. It carries the same claims as ClaimsFromContext.
func AuthInfoFromContext(ctx context.Context) (*verifier.ClaimSet, bool) {
	claims, ok := ctx.Value(authInfoKey).(*verifier.ClaimSet)
	return claims, ok
}

// HasClaims reports whether the request was authenticated.
func HasClaims(ctx context.Context) bool {
	_, ok := ClaimsFromContext(ctx)
	return ok
}
