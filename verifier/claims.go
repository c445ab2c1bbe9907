package verifier

import (
	"time"
)

// ClaimSet is the validated content of a token. It is produced only
// after the full verification pipeline has succeeded and lives for the
// duration of the request it authenticated.
//
// Registered claims get named fields; everything else the provider put
// in the token is available through Extra. Email is lifted out of Extra
// because nearly every downstream consumer wants it.
type ClaimSet struct {
	Issuer    string    `json:"iss,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	Audience  []string  `json:"aud,omitempty"`
	Expiry    time.Time `json:"exp,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	NotBefore time.Time `json:"nbf,omitempty"`
	Email     string    `json:"email,omitempty"`

	// Extra holds provider-specific claims keyed by claim name.
	Extra map[string]any `json:"-"`
}
