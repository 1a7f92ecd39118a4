// Package client talks to the remote animal listing API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with two
//     paginated reads: FetchPage for the main feed and SearchPage for
//     filtered lookups.
//  2. An HTTP+JSON implementation (see HTTPClient) that rate-limits outbound
//     calls, tags each request with an X-Request-ID, bounds it with a timeout
//     and maps transport failures to sentinel errors. Authorization is left
//     to the http.RoundTripper it is given (normally an auth.Gateway).
//
// # Error Handling
//
// Every transport failure matches ErrNetwork with errors.Is. The narrower
// ErrUnavailable (connectivity, timeouts, 503) and ErrUnauthorized (401/403)
// both wrap it, as does *StatusError for any other non-2xx status.
// Cancellation of the caller's context is returned unchanged and is not a
// network error.
//
// # Concurrency & Contexts
//
// HTTPClient is stateless apart from its rate limiter and is safe for
// concurrent use.
package client
