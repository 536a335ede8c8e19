// Package log wires the process-wide slog logger and carries
// request-scoped loggers through contexts.
package log

import (
	"context"
	"log/slog"
	"os"

	"github.com/AMCarbonaro/snapbot/config"
)

type ctxKey struct{}

// InitializeDefaultLogger installs a text handler at the level implied
// by the debug flag. Debug runs also record source positions, which
// helps when chasing a cycle step through the engine.
func InitializeDefaultLogger() {
	opts := &slog.HandlerOptions{Level: config.GetLogLevel()}
	if config.Debug {
		opts.AddSource = true
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, opts)))
}

func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// LoggerFromContext returns the context's logger, or the process
// default when none was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
