package tokengate

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyward/tokengate/verifier"
)

func TestDefaultErrorHandler(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "it writes the missing-credentials body for a missing token",
			err:        ErrTokenMissing,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":{"code":401,"message":"Unauthorized: Missing or invalid Authorization header"}}`,
		},
		{
			name:       "it includes the verifier's reason for an invalid token",
			err:        invalidError{details: &verifier.TokenError{Code: verifier.ErrorCodeExpired, Reason: "token expired"}},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":{"code":401,"message":"Unauthorized: token expired"}}`,
		},
		{
			name:       "it hides detail for unrecognized errors",
			err:        errors.New("the cache caught fire"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":{"code":500,"message":"Internal Server Error"}}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			DefaultErrorHandler(w, r, testCase.err)

			assert.Equal(t, testCase.wantStatus, w.Result().StatusCode)
			assert.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))

			body, err := io.ReadAll(w.Result().Body)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantBody, strings.TrimSpace(string(body)))
		})
	}
}

func TestRejectionMessage(t *testing.T) {
	t.Run("it falls back to a generic reason for invalid tokens without detail", func(t *testing.T) {
		msg := RejectionMessage(invalidError{details: errors.New("opaque")})
		assert.Equal(t, "Unauthorized: token verification failed", msg)
	})

	t.Run("it keeps extractor detail out of the response", func(t *testing.T) {
		msg := RejectionMessage(missingError{details: errors.New("Authorization header format must be Bearer {token}")})
		assert.Equal(t, "Unauthorized: Missing or invalid Authorization header", msg)
	})
}

func TestRejectionErrorsAnswerIsAndAs(t *testing.T) {
	tokenErr := &verifier.TokenError{Code: verifier.ErrorCodeSignature, Reason: "signature verification failed"}
	wrapped := invalidError{details: tokenErr}

	assert.ErrorIs(t, wrapped, ErrTokenInvalid)
	assert.NotErrorIs(t, wrapped, ErrTokenMissing)

	var got *verifier.TokenError
	require.ErrorAs(t, wrapped, &got)
	assert.Equal(t, verifier.ErrorCodeSignature, got.Code)
}
