package verifier

// ErrorCode identifies the category of a verification failure. Codes are
// stable and suitable for branching; Reason strings are for humans.
type ErrorCode string

const (
	ErrorCodeMalformedToken ErrorCode = "malformed_token"
	ErrorCodeMissingKeyID   ErrorCode = "missing_key_id"
	ErrorCodeKeyResolution  ErrorCode = "key_resolution_failed"
	ErrorCodeAlgorithm      ErrorCode = "disallowed_algorithm"
	ErrorCodeSignature      ErrorCode = "invalid_signature"
	ErrorCodeIssuerMismatch ErrorCode = "issuer_mismatch"
	ErrorCodeAudience       ErrorCode = "audience_mismatch"
	ErrorCodeExpired        ErrorCode = "token_expired"
	ErrorCodeNotYetValid    ErrorCode = "token_not_yet_valid"
)

// TokenError is returned by Verify for every failed token. Reason is a
// human-readable description safe to return to callers; it never
// contains token bytes or key material. The underlying cause, when one
// exists, is available via Unwrap for logging.
type TokenError struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *TokenError) Error() string {
	return e.Reason
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// Is matches two TokenErrors by Code, so callers can write
// errors.Is(err, &TokenError{Code: ErrorCodeExpired}).
func (e *TokenError) Is(target error) bool {
	t, ok := target.(*TokenError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
