// Package common contains shared constants and sentinel errors used across
// mailadmin components.
package common

// AuthorizationHeaderName is the HTTP header that carries the bearer token
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is prepended to the session token in AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// RequestIDHeaderName carries a per-request id that is also written to logs.
const RequestIDHeaderName = "X-Request-ID"

// LoginPath is the entry point the route guard redirects to.
const LoginPath = "/login"

// RedirectParam is the query parameter that preserves the originally
// requested destination across a login redirect.
const RedirectParam = "redirect"
