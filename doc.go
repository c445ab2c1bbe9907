/*
Package tokengate authenticates HTTP requests with bearer tokens before
they reach business handlers.

The gate validates a presented token against the public signing keys an
identity provider publishes at a JSON Web Key Set endpoint: signature
(RS256 only), issuer, optional audience, and time window. Keys are
cached in-process with TTL expiry and a size bound, and key-set fetches
are rate limited so a burst of unknown key IDs cannot hammer the
provider. On success the validated claims are attached to the request
context; on failure the request is answered with a 401 and a structured
JSON body, and no downstream handler runs.

# Quick start

	cfg := tokengate.Config{
	    Issuer:    "https://issuer.example.com/",
	    KeySetURI: "https://issuer.example.com/.well-known/jwks.json",
	    Audience:  "my-api",
	}

	gate, err := tokengate.New(cfg)
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/api/", gate.CheckJWT(apiHandler))
	http.ListenAndServe(":8080", nil)

Configuration can also come from TOKENGATE_* environment variables via
ConfigFromEnv. A config missing the issuer or the key-set URI produces
a disabled gate that passes every request through unauthenticated, so
deployments can ship with authentication off and turn it on with two
variables.

# Accessing claims

	func apiHandler(w http.ResponseWriter, r *http.Request) {
	    claims, ok := tokengate.ClaimsFromContext(r.Context())
	    if !ok {
	        http.Error(w, "Unauthorized", http.StatusUnauthorized)
	        return
	    }
	    fmt.Fprintf(w, "Hello, %s!", claims.Subject)
	}

AuthInfoFromContext returns the same claims under the second lookup
name some codebases use.

# Rejection responses

Rejected requests receive a 401 with a JSON body:

	{"error": {"code": 401, "message": "Unauthorized: token expired"}}

The message carries the verification failure category only; it never
contains token bytes or key material. Replace the response shape with
WithErrorHandler.

# Layering

The pipeline underneath the gate is assembled from the verifier and
keyset packages, each usable on its own: keyset resolves signing keys
(cache in front of a rate-limited JWKS client), verifier runs the
ordered token checks. Adapters for gin, echo, and gRPC live under
framework/; gatetest provides a fake issuer for tests.

A Gate is immutable after New and safe for concurrent use.
*/
package tokengate
