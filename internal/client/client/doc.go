// Package client contains the transport layer of mailadmin.
//
// # Overview
//
//  1. HTTPClient talks JSON to the backend over one fixed base URL. A
//     RoundTripper attaches "Authorization: Bearer <token>" taken from a
//     TokenSource (the session store) and every request gets an
//     X-Request-ID that is also written to the logs.
//  2. DecodePage and DecodeRow are the single place where the backend's
//     assorted response shapes are normalised into models.Page and rows.
//     Unknown shapes are rejected with ErrMalformedResponse instead of
//     being guessed at further up.
//  3. InitDatabase and RunMigrations bootstrap the local SQLite file that
//     holds the durable copy of the session.
//
// # Error Handling
//
// Failures map onto sentinel errors matched with errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrForbidden, ErrValidation, ErrNotFound, ErrServer and
// ErrMalformedResponse. Non-2xx answers are *APIError values that unwrap to
// one of them and keep the backend's message.
//
// Nothing is retried here.
package client
