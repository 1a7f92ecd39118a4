// Package auth attaches access tokens to outbound API requests.
//
// Gateway is an http.RoundTripper: it reads the current token from a
// TokenStore, refreshes it through a Refresher when it has expired and
// clears it when the server answers 401. Concurrent refreshes are coalesced
// so that a burst of requests with an expired token performs one exchange.
package auth
