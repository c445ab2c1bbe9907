package verifier

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Token shape guards applied before any parsing. Compact JWS tokens have
// two dots; anything past five is hostile input, not a token.
const (
	maxTokenBytes = 1 * 1024 * 1024
	maxTokenDots  = 5
)

// KeyResolver produces the public signing key for the key ID a token
// declares. keyset.Resolver satisfies it.
type KeyResolver interface {
	Resolve(ctx context.Context, keyID string) (jwk.Key, error)
}

// Clock supplies the verification time. It matches the jwx Clock shape
// and exists so tests can pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Verifier runs the token verification pipeline: structural decode, key
// resolution, RS256 signature check, then issuer, audience, and time
// window claims. Tokens declaring any signature algorithm other than
// RS256 are rejected outright.
type Verifier struct {
	resolver KeyResolver
	issuer   string
	audience string
	leeway   time.Duration
	clock    Clock
}

// New builds a Verifier that trusts tokens issued by issuer and signed
// with a key the resolver can produce.
func New(resolver KeyResolver, issuer string, opts ...Option) (*Verifier, error) {
	if resolver == nil {
		return nil, errors.New("key resolver is required")
	}
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}

	v := &Verifier{
		resolver: resolver,
		issuer:   issuer,
		clock:    systemClock{},
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Verify checks rawToken and returns its claims. Every failure is a
// *TokenError whose Reason is safe to surface to the caller; each step
// below is a hard gate and aborts the pipeline.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*ClaimSet, error) {
	hdr, err := decodeHeader(rawToken)
	if err != nil {
		return nil, err
	}

	keyID := hdr.KeyID()
	if keyID == "" {
		return nil, &TokenError{Code: ErrorCodeMissingKeyID, Reason: "missing key id"}
	}

	key, err := v.resolver.Resolve(ctx, keyID)
	if err != nil {
		return nil, &TokenError{
			Code:   ErrorCodeKeyResolution,
			Reason: "key resolution failed: " + err.Error(),
			Err:    err,
		}
	}

	if alg := hdr.Algorithm(); alg != jwa.RS256 {
		return nil, &TokenError{
			Code:   ErrorCodeAlgorithm,
			Reason: fmt.Sprintf("disallowed signing algorithm %q", alg.String()),
		}
	}

	token, err := jwt.Parse([]byte(rawToken), jwt.WithKey(jwa.RS256, key), jwt.WithValidate(false))
	if err != nil {
		return nil, &TokenError{Code: ErrorCodeSignature, Reason: "signature verification failed", Err: err}
	}

	if err := v.validateClaims(token); err != nil {
		return nil, err
	}

	return newClaimSet(token), nil
}

// decodeHeader structurally decodes the token envelope and its claim
// payload without trusting either, and returns the protected header.
func decodeHeader(rawToken string) (jws.Headers, error) {
	if rawToken == "" || len(rawToken) > maxTokenBytes || strings.Count(rawToken, ".") > maxTokenDots {
		return nil, &TokenError{Code: ErrorCodeMalformedToken, Reason: "malformed token"}
	}

	msg, err := jws.Parse([]byte(rawToken))
	if err != nil {
		return nil, &TokenError{Code: ErrorCodeMalformedToken, Reason: "malformed token", Err: err}
	}
	sigs := msg.Signatures()
	if len(sigs) == 0 {
		return nil, &TokenError{Code: ErrorCodeMalformedToken, Reason: "malformed token"}
	}

	if _, err := jwt.ParseInsecure([]byte(rawToken)); err != nil {
		return nil, &TokenError{Code: ErrorCodeMalformedToken, Reason: "malformed token", Err: err}
	}

	return sigs[0].ProtectedHeaders(), nil
}

func (v *Verifier) validateClaims(token jwt.Token) error {
	now := v.clock.Now()

	if token.Issuer() != v.issuer {
		return &TokenError{Code: ErrorCodeIssuerMismatch, Reason: "issuer mismatch"}
	}

	if v.audience != "" && !slices.Contains(token.Audience(), v.audience) {
		return &TokenError{Code: ErrorCodeAudience, Reason: "audience mismatch"}
	}

	if _, ok := token.Get(jwt.ExpirationKey); !ok {
		return &TokenError{Code: ErrorCodeExpired, Reason: "token has no expiration"}
	}
	if now.Add(-v.leeway).After(token.Expiration()) {
		return &TokenError{Code: ErrorCodeExpired, Reason: "token expired"}
	}

	if _, ok := token.Get(jwt.NotBeforeKey); ok && now.Add(v.leeway).Before(token.NotBefore()) {
		return &TokenError{Code: ErrorCodeNotYetValid, Reason: "token not yet valid"}
	}
	if _, ok := token.Get(jwt.IssuedAtKey); ok && now.Add(v.leeway).Before(token.IssuedAt()) {
		return &TokenError{Code: ErrorCodeNotYetValid, Reason: "token used before issued"}
	}

	return nil
}

func newClaimSet(token jwt.Token) *ClaimSet {
	cs := &ClaimSet{
		Issuer:    token.Issuer(),
		Subject:   token.Subject(),
		Audience:  token.Audience(),
		Expiry:    token.Expiration(),
		IssuedAt:  token.IssuedAt(),
		NotBefore: token.NotBefore(),
		Extra:     token.PrivateClaims(),
	}
	if raw, ok := token.Get("email"); ok {
		if email, ok := raw.(string); ok {
			cs.Email = email
		}
	}
	return cs
}
