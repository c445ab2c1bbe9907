// Package keyset resolves token signing keys from a JSON Web Key Set
// endpoint, with an in-process cache in front of a rate-limited HTTP
// client.
//
// The three pieces mirror the resolution pipeline:
//
//   - Cache holds recently fetched keys by key ID, with lazy TTL expiry
//     and oldest-fetched-first eviction once the size bound is exceeded.
//     MemoryCache is the default; keyset/redis provides a shared backend.
//   - Client fetches the key set over HTTP. Fetches are rate limited
//     (default 10/minute) and bounded by an explicit timeout; excess
//     requests fail fast after a short wait instead of queueing.
//   - Resolver ties the two together: cache hit returns immediately,
//     cache miss fetches through the Client and stores the result.
//     Concurrent misses for one key ID collapse into a single fetch.
//
// Typical wiring:
//
//	client, err := keyset.NewClient("https://issuer.example.com/.well-known/jwks.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resolver, err := keyset.NewResolver(client)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	key, err := resolver.Resolve(ctx, "key-id-from-token-header")
//
// When only the issuer is known, DiscoverURI resolves the key-set URI
// from the issuer's .well-known/openid-configuration document first.
package keyset
