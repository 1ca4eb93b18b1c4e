// Package provider implements the client for the remote show-data API.
//
// The API is authenticated with a bearer token obtained from /auth/login and
// requires an Origin header on every request. There is no token-refresh
// endpoint: when a token expires the provider answers 401 and the caller
// performs one Reauthenticate followed by a single retry.
//
// # Errors
//
// Failures carry enough shape to classify them:
//   - IsAuthExpired: 401, re-login and retry once
//   - IsTransient: 5xx or transport failure, worth a backoff retry
//   - IsPermanent: other 4xx, never retried
//
// All identifiers in provider payloads are scoped to the show they came from
// and must never be used as join keys across fetch cycles.
package provider
