package logger

import "context"

// Logger is the structured logger the toolkit components depend on.
type Logger interface {
	Debugw(msg string, kv ...any)
	Infow(msg string, kv ...any)
	Warnw(msg string, kv ...any)
	Errorw(msg string, kv ...any)

	// With returns a child logger carrying kv on every entry.
	With(kv ...any) Logger
	// Ctx returns a child logger carrying the trace and run ids found in ctx.
	Ctx(ctx context.Context) Logger
	SafeSync()
}
