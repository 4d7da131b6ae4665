package automationclient

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogWriterSplitsLines(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	w := newLogWriter(log)
	_, _ = w.Write([]byte("Updating (acme-dev)\n + gcp:organiza"))
	_, _ = w.Write([]byte("tions:Project project creating\n\n"))
	_, _ = w.Write([]byte("Resources: 1 created"))
	w.Flush()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log records, got %d: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[1], "gcp:organizations:Project project creating") {
		t.Fatalf("line was not reassembled: %q", lines[1])
	}
	if !strings.Contains(lines[2], "Resources: 1 created") {
		t.Fatalf("partial line not flushed: %q", lines[2])
	}
}
