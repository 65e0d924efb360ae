// Package logging defines the structured-logging interface used by the portal
// client. The only implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key/value pairs, e.g.:
//
//	log.Info(ctx, "tokens refreshed", "request_id", id)
type Logger interface {
	// Debug logs per-request diagnostics.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key/value pairs.
	With(args ...any) Logger
}

// RedactToken hides a credential in log output. Empty input stays empty so
// that "no token" remains distinguishable from "some token".
func RedactToken(tok string) string {
	if tok == "" {
		return ""
	}
	return "[REDACTED_TOKEN]"
}
