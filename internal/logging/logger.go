// Package logging defines the minimal structured-logging interface used by
// the Pragati backend. The production implementation wraps slog; tests may
// substitute a no-op or recording logger.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// key-value pairs:
//
//	log.Info(ctx, "starting http server", "addr", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value
	// pairs.
	With(args ...any) Logger
}
