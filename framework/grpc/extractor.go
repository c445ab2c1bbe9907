package grpcgate

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// TokenExtractor pulls the bearer token out of the call metadata. Like
// the HTTP extractors, absence is not an error: return "" and let the
// gate decide whether missing credentials reject the call.
type TokenExtractor func(ctx context.Context) (string, error)

var (
	// ErrMultipleAuthHeaders rejects calls carrying more than one
	// authorization metadata entry.
	ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

	// ErrInvalidAuthFormat rejects authorization metadata not of the
	// form "Bearer <token>".
	ErrInvalidAuthFormat = errors.New("authorization metadata format must be Bearer {token}")
)

// MetadataTokenExtractor extracts the token from the "authorization"
// metadata key. gRPC normalizes incoming metadata keys to lowercase, so
// only the lowercase key is checked.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil // No metadata, no token.
	}

	authHeaders := md.Get("authorization")
	if len(authHeaders) == 0 {
		return "", nil
	}
	if len(authHeaders) > 1 {
		return "", ErrMultipleAuthHeaders
	}

	parts := strings.Fields(authHeaders[0])
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrInvalidAuthFormat
	}

	return parts[1], nil
}
