package oidc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWellKnownEndpointsFromIssuerURL(t *testing.T) {
	t.Run("it decodes the discovery document", func(t *testing.T) {
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/.well-known/openid-configuration", r.URL.Path)
			fmt.Fprintf(w, `{"issuer":%q,"jwks_uri":%q}`, server.URL, server.URL+"/keys")
		}))
		defer server.Close()

		issuerURL, err := url.Parse(server.URL)
		require.NoError(t, err)

		endpoints, err := GetWellKnownEndpointsFromIssuerURL(context.Background(), nil, *issuerURL)
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/keys", endpoints.JWKSURI)
	})

	t.Run("it tolerates a trailing slash difference on the issuer", func(t *testing.T) {
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"issuer":%q,"jwks_uri":%q}`, server.URL+"/", server.URL+"/keys")
		}))
		defer server.Close()

		issuerURL, err := url.Parse(server.URL)
		require.NoError(t, err)

		_, err = GetWellKnownEndpointsFromIssuerURL(context.Background(), nil, *issuerURL)
		assert.NoError(t, err)
	})

	t.Run("it rejects a non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		issuerURL, err := url.Parse(server.URL)
		require.NoError(t, err)

		_, err = GetWellKnownEndpointsFromIssuerURL(context.Background(), nil, *issuerURL)
		assert.ErrorContains(t, err, "returned status 404")
	})
}
