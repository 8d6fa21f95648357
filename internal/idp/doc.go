// Package idp talks to the platform identity provider (Keycloak).
//
//   - endpoint.go: derivation of the IAM host and the realm endpoints
//   - exchanger.go: API key to bearer token exchange (refresh_token grant)
//   - token.go: token cache with a 60 second refresh margin
//   - admin.go: admin API reads (client lookup, offline sessions)
//   - client.go: the shared *http.Client
//   - claims.go: unverified access token claims for the debug trace
//
// Every admin call asks the TokenManager for a token first, so a call never
// goes out with a token that has less than a minute left.
package idp
