package keyset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/keyward/tokengate/internal/oidc"
)

// DiscoverURI resolves the key-set URI for an issuer from its
// .well-known/openid-configuration document. It is a convenience for
// deployments that configure only the issuer; pass the result as the
// key-set URI when building a Client. A nil client uses
// http.DefaultClient.
func DiscoverURI(ctx context.Context, client *http.Client, issuer string) (string, error) {
	if issuer == "" {
		return "", errors.New("issuer is required")
	}

	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return "", fmt.Errorf("invalid issuer URL: %w", err)
	}

	endpoints, err := oidc.GetWellKnownEndpointsFromIssuerURL(ctx, client, *issuerURL)
	if err != nil {
		return "", err
	}
	if endpoints.JWKSURI == "" {
		return "", fmt.Errorf("issuer %q does not advertise a jwks_uri", issuer)
	}

	return endpoints.JWKSURI, nil
}
