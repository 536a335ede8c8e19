package log

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func TestLoggerRoundtrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With(slog.String("component", "test"))
	ctx := ContextWithLogger(context.Background(), logger)
	if got := LoggerFromContext(ctx); got != logger {
		t.Fatal("expected the attached logger back")
	}
}

func TestLoggerFromContextFallsBackToDefault(t *testing.T) {
	if got := LoggerFromContext(context.Background()); got != slog.Default() {
		t.Fatal("a bare context must yield the process default logger")
	}
}
