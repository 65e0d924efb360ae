// Package apiclient is the single point of outbound HTTP communication between
// the portal client and the REST backend.
//
// # Overview
//
// A Client owns the access/refresh token pair. It:
//  1. attaches "Authorization: Bearer <access>" to every request while an
//     access token is held;
//  2. on a 401 response performs at most one refresh (POST RefreshPath) and
//     retries the original request once with the new access token;
//  3. normalizes every failure into *APIError, with Status 0 reserved for
//     requests that never reached the server;
//  4. persists the pair through a TokenStore and mirrors it into session
//     cookies for the portal URL.
//
// # Error Handling
//
// Callers match failure classes with errors.Is: ErrUnavailable (Status 0),
// ErrUnauthorized (Status 401), ErrNotConfigured (empty base URL) and
// ErrDownloadFailed (non-2xx from Download). errors.As exposes the
// *APIError with its Message and per-field Errors.
//
// # Concurrency
//
// A Client is safe for concurrent use. Concurrent requests that hit 401 share
// one in-flight refresh, so a rotated refresh token is never presented twice.
// Every operation honors context cancellation; Options.Timeout bounds each
// individual HTTP attempt.
package apiclient
