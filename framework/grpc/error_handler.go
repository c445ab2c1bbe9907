package grpcgate

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	tokengate "github.com/keyward/tokengate"
	"github.com/keyward/tokengate/verifier"
)

// ErrorHandler converts gate rejections to gRPC status errors.
type ErrorHandler func(error) error

// DefaultErrorHandler maps rejections onto the conventional status
// codes: missing or failed credentials are Unauthenticated, trust
// mismatches (issuer, audience) are PermissionDenied, and key-discovery
// failures are Internal since the caller's token may well be fine.
// Messages carry the same category text as the HTTP rejection body.
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrMultipleAuthHeaders) || errors.Is(err, ErrInvalidAuthFormat) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	if errors.Is(err, tokengate.ErrTokenMissing) {
		return status.Error(codes.Unauthenticated, "missing credentials")
	}

	var tokenErr *verifier.TokenError
	if errors.As(err, &tokenErr) {
		switch tokenErr.Code {
		case verifier.ErrorCodeIssuerMismatch, verifier.ErrorCodeAudience:
			return status.Error(codes.PermissionDenied, tokenErr.Reason)
		case verifier.ErrorCodeKeyResolution:
			return status.Error(codes.Internal, "unable to verify token")
		default:
			return status.Error(codes.Unauthenticated, tokenErr.Reason)
		}
	}

	// Unknown failures stay Unauthenticated so nothing internal leaks
	// as a retryable server error.
	return status.Error(codes.Unauthenticated, "invalid token")
}
