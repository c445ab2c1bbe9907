package tokengate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionValidation(t *testing.T) {
	testCases := []struct {
		name    string
		option  Option
		wantErr error
	}{
		{"nil verifier", WithVerifier(nil), ErrVerifierNil},
		{"nil error handler", WithErrorHandler(nil), ErrErrorHandlerNil},
		{"nil token extractor", WithTokenExtractor(nil), ErrTokenExtractorNil},
		{"nil logger", WithLogger(nil), ErrLoggerNil},
		{"nil metrics", WithMetrics(nil), ErrMetricsNil},
		{"nil tracer", WithTracer(nil), ErrTracerNil},
		{"empty excluded paths", WithExcludedPaths(nil), ErrExcludedPathsEmpty},
	}

	for _, testCase := range testCases {
		t.Run("it rejects a "+testCase.name, func(t *testing.T) {
			_, err := New(Config{}, testCase.option)
			require.Error(t, err)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func TestWithExcludedPathsMatching(t *testing.T) {
	g := &Gate{}
	require.NoError(t, WithExcludedPaths([]string{"/health", "/public/*"})(g))

	testCases := []struct {
		path string
		want bool
	}{
		{"/health", true},
		{"/healthz", false},
		{"/public/docs", true},
		{"/public", false},
		{"/api/resource", false},
	}

	for _, testCase := range testCases {
		r := httptest.NewRequest(http.MethodGet, testCase.path, nil)
		assert.Equal(t, testCase.want, g.exclusionHandler(r), "path %s", testCase.path)
	}
}
