package contextutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc123")

	ctx := WithLogger(context.Background(), logger)
	got := LoggerFromContext(ctx)

	got.Info("hello")
	if !strings.Contains(buf.String(), "request_id=abc123") {
		t.Errorf("context logger lost its attributes: %s", buf.String())
	}
}

func TestLoggerFromContext_Default(t *testing.T) {
	if LoggerFromContext(context.Background()) == nil {
		t.Error("LoggerFromContext() returned nil for bare context")
	}
}
