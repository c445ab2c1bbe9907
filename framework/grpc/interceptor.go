// Package grpcgate adapts a tokengate.Gate to gRPC server interceptors.
// The bearer token travels in the "authorization" metadata entry;
// rejections become gRPC status errors instead of HTTP 401 bodies.
package grpcgate

import (
	"context"

	"google.golang.org/grpc"

	tokengate "github.com/keyward/tokengate"
)

// Interceptor runs the gate's decision for incoming gRPC requests.
// Build it with New; it is immutable afterwards and safe for
// concurrent use.
type Interceptor struct {
	gate            *tokengate.Gate
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          tokengate.Logger
}

// New builds an Interceptor around the given gate.
func New(gate *tokengate.Gate, opts ...Option) (*Interceptor, error) {
	if gate == nil {
		return nil, ErrGateNil
	}

	i := &Interceptor{
		gate:            gate,
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	return i, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that
// authenticates each call before the handler runs. Verified claims are
// available to the handler via tokengate.ClaimsFromContext.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("skipping authentication for excluded method",
					"method", info.FullMethod)
			}
			return handler(ctx, req)
		}

		authedCtx, err := i.checkCall(ctx)
		if err != nil {
			return nil, err
		}
		return handler(authedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// authenticates each stream before the handler runs.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("skipping authentication for excluded method",
					"method", info.FullMethod)
			}
			return handler(srv, ss)
		}

		authedCtx, err := i.checkCall(ss.Context())
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: authedCtx})
	}
}

// checkCall extracts and verifies the bearer token from the call
// metadata, returning a context carrying the claims on success and a
// gRPC status error on rejection.
func (i *Interceptor) checkCall(ctx context.Context) (context.Context, error) {
	token, err := i.tokenExtractor(ctx)
	if err != nil {
		return nil, i.errorHandler(err)
	}

	claims, err := i.gate.CheckToken(ctx, token)
	if err != nil {
		return nil, i.errorHandler(err)
	}
	if claims == nil {
		return ctx, nil
	}
	return tokengate.SetClaims(ctx, claims), nil
}

// wrappedServerStream overrides the stream context with the one
// carrying the verified claims.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
