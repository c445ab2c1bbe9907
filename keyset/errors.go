package keyset

import (
	"fmt"
)

// KeyFetchError is returned by a Source when a signing key could not be
// retrieved from the key-discovery endpoint. Reason is a short, stable
// description of the failure category ("timeout", "rate limited",
// "malformed key set", ...); Err holds the underlying cause when there
// is one.
type KeyFetchError struct {
	Reason string
	Err    error
}

func (e *KeyFetchError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *KeyFetchError) Unwrap() error {
	return e.Err
}

// KeyResolutionError is returned by the Resolver when a key could not be
// produced for a key ID, wrapping the underlying fetch error.
type KeyResolutionError struct {
	KeyID string
	Err   error
}

func (e *KeyResolutionError) Error() string {
	return fmt.Sprintf("resolving key %q: %v", e.KeyID, e.Err)
}

func (e *KeyResolutionError) Unwrap() error {
	return e.Err
}
