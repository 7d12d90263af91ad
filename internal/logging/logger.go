// Package logging defines the structured-logging interface used by the postit
// client. The only implementation wraps log/slog; tests use Nop.
package logging

import "context"

// Logger is a context-aware, structured logger. Args are key/value pairs:
//
//	log.Debug(ctx, "replaying request", "path", path, "request_id", id)
//
// Debug carries request and refresh decisions, Info session changes, Warn
// a rejected refresh and Error local storage failures.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
