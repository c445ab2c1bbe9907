package verifier

import (
	"fmt"
	"time"
)

// Option configures a Verifier.
type Option func(*Verifier) error

// WithAudience makes the audience claim mandatory: tokens whose audience
// list does not contain aud are rejected. Without this option the
// audience claim is not checked.
func WithAudience(aud string) Option {
	return func(v *Verifier) error {
		if aud == "" {
			return fmt.Errorf("audience cannot be empty")
		}
		v.audience = aud
		return nil
	}
}

// WithLeeway allows clock skew between this process and the issuer when
// checking the time-window claims. Defaults to zero.
func WithLeeway(d time.Duration) Option {
	return func(v *Verifier) error {
		if d < 0 {
			return fmt.Errorf("leeway cannot be negative, got %s", d)
		}
		v.leeway = d
		return nil
	}
}

// WithClock sets the time source used for claim validation. Defaults to
// the system clock.
func WithClock(c Clock) Option {
	return func(v *Verifier) error {
		if c == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		v.clock = c
		return nil
	}
}
