package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
)

// maxDocumentBytes caps the discovery document read. Real documents are a
// few KB.
const maxDocumentBytes = 1 * 1024 * 1024

// WellKnownEndpoints holds the fields of the OIDC discovery document this
// module uses.
type WellKnownEndpoints struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

// GetWellKnownEndpointsFromIssuerURL fetches the well-known configuration
// document for the given issuer and verifies that the document's issuer
// matches the URL it was fetched for.
func GetWellKnownEndpointsFromIssuerURL(ctx context.Context, client *http.Client, issuerURL url.URL) (*WellKnownEndpoints, error) {
	expectedIssuer := issuerURL.String()
	issuerURL.Path = path.Join(issuerURL.Path, ".well-known/openid-configuration")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, issuerURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request to get well known endpoints: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not get well known endpoints from url %s: %w", issuerURL.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("well known endpoints request returned status %d, expected 200", resp.StatusCode)
	}

	var wkEndpoints WellKnownEndpoints
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentBytes)).Decode(&wkEndpoints); err != nil {
		return nil, fmt.Errorf("could not decode json body when getting well known endpoints: %w", err)
	}

	if wkEndpoints.Issuer != "" && trimSlash(wkEndpoints.Issuer) != trimSlash(expectedIssuer) {
		return nil, fmt.Errorf("well known endpoints issuer %q does not match %q", wkEndpoints.Issuer, expectedIssuer)
	}

	return &wkEndpoints, nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
