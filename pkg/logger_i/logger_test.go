package logger_i_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"legisc-rag/pkg/logger_i"
)

func TestLoggerCarriesComponentAndCallerSource(t *testing.T) {
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})))

	log := logger_i.NewLogger("retriever").With("traceId", "t-1")
	log.Warn("vector search degraded", "attempt", 2)

	out := buf.String()
	for _, want := range []string{
		"component=retriever",
		"traceId=t-1",
		"vector search degraded",
		"attempt=2",
		// the source must point at this file, not at the wrapper
		"logger_test.go",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q:\n%s", want, out)
		}
	}
}

func TestLoggerHonorsHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	logger_i.NewLogger("retriever").Debug("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("debug record emitted below handler level:\n%s", buf.String())
	}
}
