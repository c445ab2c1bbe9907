// Package gatetest provides a fake token issuer for testing code that
// sits behind a tokengate.Gate. It runs an httptest server publishing a
// JSON Web Key Set and signs tokens that verify against it, so tests
// exercise the real resolution and verification pipeline without a real
// identity provider.
//
//	issuer := gatetest.NewIssuer()
//	defer issuer.Close()
//
//	gate, _ := tokengate.New(tokengate.Config{
//	    Issuer:    issuer.URL(),
//	    KeySetURI: issuer.KeySetURI(),
//	})
//
//	token := issuer.Sign(issuer.Claims(nil))
package gatetest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// DefaultKeyID is the key ID the issuer publishes and signs with.
const DefaultKeyID = "gatetest-key-1"

// Issuer is a fake identity provider. It holds an RSA signing key,
// serves the matching public key as a JWKS document, and signs tokens
// on demand. Construct it with NewIssuer and Close it when done.
type Issuer struct {
	key      *rsa.PrivateKey
	keyID    string
	server   *httptest.Server
	requests atomic.Int64
}

// NewIssuer generates a signing key and starts the JWKS server. It
// panics on setup failure; fixtures have no useful error path.
func NewIssuer() *Issuer {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic("gatetest: generating RSA key: " + err.Error())
	}

	i := &Issuer{key: key, keyID: DefaultKeyID}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/jwks.json", i.serveJWKS)
	i.server = httptest.NewServer(mux)
	return i
}

// URL returns the issuer URL. Use it as the configured trusted issuer;
// tokens signed by Sign carry it as their iss claim by default.
func (i *Issuer) URL() string {
	return i.server.URL
}

// KeySetURI returns the URL of the JWKS endpoint.
func (i *Issuer) KeySetURI() string {
	return i.server.URL + "/.well-known/jwks.json"
}

// KeyID returns the key ID the issuer signs with.
func (i *Issuer) KeyID() string {
	return i.keyID
}

// Requests reports how many times the JWKS endpoint has been fetched.
// Cache tests assert on it.
func (i *Issuer) Requests() int64 {
	return i.requests.Load()
}

// Close shuts down the JWKS server. Tokens already signed keep failing
// key resolution afterwards, which is exactly the "key-discovery
// endpoint unreachable" scenario.
func (i *Issuer) Close() {
	i.server.Close()
}

func (i *Issuer) serveJWKS(w http.ResponseWriter, r *http.Request) {
	i.requests.Add(1)

	pub, err := jwk.FromRaw(i.key.Public())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = pub.Set(jwk.KeyIDKey, i.keyID)
	_ = pub.Set(jwk.AlgorithmKey, jwa.RS256)
	_ = pub.Set(jwk.KeyUsageKey, jwk.ForSignature)

	set := jwk.NewSet()
	_ = set.AddKey(pub)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(set)
}

// Claims returns a claim set that verifies against this issuer: iss set
// to the issuer URL, sub "user-123", exp one hour out, iat now. Entries
// in overrides replace the defaults; a nil value deletes the claim, so
// Claims(jwt.MapClaims{"exp": nil}) produces a token with no expiry.
func (i *Issuer) Claims(overrides jwt.MapClaims) jwt.MapClaims {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": i.URL(),
		"sub": "user-123",
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
	}
	for k, v := range overrides {
		if v == nil {
			delete(claims, k)
			continue
		}
		claims[k] = v
	}
	return claims
}

// Sign returns a compact RS256 token over claims, signed with the
// issuer's key and declaring its key ID.
func (i *Issuer) Sign(claims jwt.MapClaims) string {
	return i.sign(jwt.SigningMethodRS256, i.key, i.keyID, claims)
}

// SignWithKeyID signs like Sign but declares the given key ID in the
// token header. An unknown key ID exercises the key-resolution failure
// path.
func (i *Issuer) SignWithKeyID(keyID string, claims jwt.MapClaims) string {
	return i.sign(jwt.SigningMethodRS256, i.key, keyID, claims)
}

// SignWithoutKeyID signs like Sign but omits the kid header.
func (i *Issuer) SignWithoutKeyID(claims jwt.MapClaims) string {
	return i.sign(jwt.SigningMethodRS256, i.key, "", claims)
}

// SignHS256 returns a token signed with a symmetric key but declaring
// this issuer's key ID, for algorithm allow-list tests. The signature
// is valid under HS256; a correct verifier must reject it anyway.
func (i *Issuer) SignHS256(claims jwt.MapClaims) string {
	return i.sign(jwt.SigningMethodHS256, []byte("gatetest-shared-secret"), i.keyID, claims)
}

// SignBadSignature returns a token signed with a different RSA key but
// declaring this issuer's key ID, so key resolution succeeds and only
// the signature check fails.
func (i *Issuer) SignBadSignature(claims jwt.MapClaims) string {
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic("gatetest: generating RSA key: " + err.Error())
	}
	return i.sign(jwt.SigningMethodRS256, other, i.keyID, claims)
}

func (i *Issuer) sign(method jwt.SigningMethod, key any, keyID string, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(method, claims)
	if keyID != "" {
		token.Header["kid"] = keyID
	}
	signed, err := token.SignedString(key)
	if err != nil {
		panic("gatetest: signing token: " + err.Error())
	}
	return signed
}
