package grpcgate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	tokengate "github.com/keyward/tokengate"
	grpcgate "github.com/keyward/tokengate/framework/grpc"
	"github.com/keyward/tokengate/gatetest"
)

func newInterceptor(t *testing.T, issuer *gatetest.Issuer, opts ...grpcgate.Option) *grpcgate.Interceptor {
	t.Helper()

	gate, err := tokengate.New(tokengate.Config{
		Issuer:    issuer.URL(),
		KeySetURI: issuer.KeySetURI(),
	})
	require.NoError(t, err)

	interceptor, err := grpcgate.New(gate, opts...)
	require.NoError(t, err)
	return interceptor
}

func callUnary(interceptor *grpcgate.Interceptor, ctx context.Context, method string) (context.Context, error) {
	var handlerCtx context.Context
	handler := func(ctx context.Context, req any) (any, error) {
		handlerCtx = ctx
		return "ok", nil
	}

	_, err := interceptor.UnaryServerInterceptor()(
		ctx,
		nil,
		&grpc.UnaryServerInfo{FullMethod: method},
		handler,
	)
	return handlerCtx, err
}

func authContext(token string) context.Context {
	return metadata.NewIncomingContext(
		context.Background(),
		metadata.Pairs("authorization", "Bearer "+token),
	)
}

func TestUnaryServerInterceptor(t *testing.T) {
	issuer := gatetest.NewIssuer()
	defer issuer.Close()

	t.Run("it passes an authenticated call through with claims", func(t *testing.T) {
		interceptor := newInterceptor(t, issuer)

		handlerCtx, err := callUnary(interceptor, authContext(issuer.Sign(issuer.Claims(nil))), "/svc/Method")
		require.NoError(t, err)

		claims, ok := tokengate.ClaimsFromContext(handlerCtx)
		require.True(t, ok)
		assert.Equal(t, "user-123", claims.Subject)
	})

	t.Run("it rejects a call with no credentials as Unauthenticated", func(t *testing.T) {
		interceptor := newInterceptor(t, issuer)

		_, err := callUnary(interceptor, context.Background(), "/svc/Method")
		require.Error(t, err)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("it rejects an expired token as Unauthenticated with the reason", func(t *testing.T) {
		interceptor := newInterceptor(t, issuer)

		ctx := authContext(issuer.Sign(issuer.Claims(map[string]any{"exp": 1000})))
		_, err := callUnary(interceptor, ctx, "/svc/Method")
		require.Error(t, err)

		st := status.Convert(err)
		assert.Equal(t, codes.Unauthenticated, st.Code())
		assert.Equal(t, "token expired", st.Message())
	})

	t.Run("it rejects a wrong issuer as PermissionDenied", func(t *testing.T) {
		interceptor := newInterceptor(t, issuer)

		ctx := authContext(issuer.Sign(issuer.Claims(map[string]any{"iss": "https://impostor.example.com/"})))
		_, err := callUnary(interceptor, ctx, "/svc/Method")
		require.Error(t, err)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("it reports key-discovery failures as Internal", func(t *testing.T) {
		downIssuer := gatetest.NewIssuer()
		token := downIssuer.Sign(downIssuer.Claims(nil))
		interceptor := newInterceptor(t, downIssuer)
		downIssuer.Close()

		_, err := callUnary(interceptor, authContext(token), "/svc/Method")
		require.Error(t, err)
		assert.Equal(t, codes.Internal, status.Code(err))
	})

	t.Run("it rejects malformed authorization metadata as InvalidArgument", func(t *testing.T) {
		interceptor := newInterceptor(t, issuer)

		ctx := metadata.NewIncomingContext(
			context.Background(),
			metadata.Pairs("authorization", "Basic abc123"),
		)
		_, err := callUnary(interceptor, ctx, "/svc/Method")
		require.Error(t, err)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("it skips excluded methods", func(t *testing.T) {
		interceptor := newInterceptor(t, issuer,
			grpcgate.WithExcludedMethods([]string{"/grpc.health.v1.Health/Check"}))

		_, err := callUnary(interceptor, context.Background(), "/grpc.health.v1.Health/Check")
		assert.NoError(t, err)
	})
}

func TestStreamServerInterceptor(t *testing.T) {
	issuer := gatetest.NewIssuer()
	defer issuer.Close()

	interceptor := newInterceptor(t, issuer)

	t.Run("it authenticates the stream and rewraps its context", func(t *testing.T) {
		stream := &fakeServerStream{ctx: authContext(issuer.Sign(issuer.Claims(nil)))}

		var handlerCtx context.Context
		err := interceptor.StreamServerInterceptor()(
			nil,
			stream,
			&grpc.StreamServerInfo{FullMethod: "/svc/Stream"},
			func(srv any, ss grpc.ServerStream) error {
				handlerCtx = ss.Context()
				return nil
			},
		)
		require.NoError(t, err)

		claims, ok := tokengate.ClaimsFromContext(handlerCtx)
		require.True(t, ok)
		assert.Equal(t, "user-123", claims.Subject)
	})

	t.Run("it rejects an unauthenticated stream", func(t *testing.T) {
		stream := &fakeServerStream{ctx: context.Background()}

		err := interceptor.StreamServerInterceptor()(
			nil,
			stream,
			&grpc.StreamServerInfo{FullMethod: "/svc/Stream"},
			func(srv any, ss grpc.ServerStream) error { return nil },
		)
		require.Error(t, err)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}

func TestMetadataTokenExtractor(t *testing.T) {
	t.Run("it rejects multiple authorization entries", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(
			context.Background(),
			metadata.Pairs("authorization", "Bearer one", "authorization", "Bearer two"),
		)
		_, err := grpcgate.MetadataTokenExtractor(ctx)
		assert.ErrorIs(t, err, grpcgate.ErrMultipleAuthHeaders)
	})

	t.Run("it returns nothing without metadata", func(t *testing.T) {
		token, err := grpcgate.MetadataTokenExtractor(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, token)
	})
}

// fakeServerStream satisfies grpc.ServerStream for interceptor tests.
type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *fakeServerStream) Context() context.Context {
	return s.ctx
}
