/*
Package oidc fetches the OIDC discovery document for an issuer.

Providers publish their metadata at a well-known URL:

	https://issuer.example.com/.well-known/openid-configuration

This package retrieves that document, checks the advertised issuer
against the URL it was fetched for, and returns the fields the module
needs, most importantly jwks_uri. keyset.DiscoverURI is the public
entry point.
*/
package oidc
