// Package logging is the structured logging surface shared by the server,
// its transports and the admin CLI.
package logging

import "context"

// Logger takes a message plus alternating key/value arguments:
//
//	log.Info(ctx, "token issued", "user", user.UserName)
//
// The context is handed to the backend, so attributes attached with
// WithAttrs show up on every record.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}
