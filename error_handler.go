package tokengate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/keyward/tokengate/verifier"
)

var (
	// ErrTokenMissing is the rejection for a request that presented no
	// usable bearer credential: no Authorization header, or one that is
	// not of the form "Bearer <token>".
	ErrTokenMissing = errors.New("bearer token missing")

	// ErrTokenInvalid is the rejection for a presented token that failed
	// verification.
	ErrTokenInvalid = errors.New("bearer token invalid")
)

// ErrorHandler writes the response for a rejected request. The err can
// be checked against ErrTokenMissing and ErrTokenInvalid with errors.Is;
// for invalid tokens the verifier's *TokenError is reachable through
// errors.As. Replace the default via WithErrorHandler to change the
// response shape.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ErrorResponse is the JSON body written for rejected requests.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the status code and the caller-facing message.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse builds the rejection body for the given status code
// and message.
func NewErrorResponse(code int, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// DefaultErrorHandler writes a 401 with the structured JSON rejection
// body. Errors that are neither ErrTokenMissing nor ErrTokenInvalid are
// reported as a 500 without detail.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := RejectionStatus(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(status, RejectionMessage(err)))
}

// RejectionStatus maps a gate error to the HTTP status code. Every
// authentication failure is a 401; anything else is a 500.
func RejectionStatus(err error) int {
	if errors.Is(err, ErrTokenMissing) || errors.Is(err, ErrTokenInvalid) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// RejectionMessage maps a gate error to the caller-facing message.
// Verifier reasons are included verbatim; they never contain token bytes
// or key material. Anything unrecognized collapses to a generic message
// so internal detail stays in the logs.
func RejectionMessage(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return "Unauthorized: Missing or invalid Authorization header"
	case errors.Is(err, ErrTokenInvalid):
		return "Unauthorized: " + rejectionReason(err)
	default:
		return "Internal Server Error"
	}
}

func rejectionReason(err error) string {
	var tokenErr *verifier.TokenError
	if errors.As(err, &tokenErr) {
		return tokenErr.Reason
	}
	return "token verification failed"
}

// missingError wraps an extractor failure with equality to
// ErrTokenMissing, keeping the underlying detail reachable for logging.
type missingError struct {
	details error
}

func (e missingError) Is(target error) bool {
	return target == ErrTokenMissing
}

func (e missingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTokenMissing, e.details)
}

func (e missingError) Unwrap() error {
	return e.details
}

// invalidError wraps a verification failure with equality to
// ErrTokenInvalid. Not exposed publicly; Is and Unwrap give callers all
// they need.
type invalidError struct {
	details error
}

func (e invalidError) Is(target error) bool {
	return target == ErrTokenInvalid
}

func (e invalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTokenInvalid, e.details)
}

func (e invalidError) Unwrap() error {
	return e.details
}
