// Package cli provides the interactive command-line client of the olympiad
// registration portal.
//
// It wires configuration, the local SQLite store, the authenticated API client
// and the auth service, then runs a REPL in which the user logs in and issues
// requests against the backend: JSON calls, multipart uploads and document
// downloads.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// ctx is canceled. See runREPL for the command list.
package cli
