package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONHandlerWritesSeverityAndData(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewJSONHandlerTo(&buf, slog.LevelInfo)).With("env", "dev")

	log.Debug("hidden")
	log.Warn("rules deploy failed", "error", errors.New("permission denied"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not a single JSON line: %v (%q)", err, buf.String())
	}
	if entry["severity"] != "WARNING" {
		t.Fatalf("severity = %v, want WARNING", entry["severity"])
	}
	data, ok := entry["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data object: %v", entry)
	}
	if data["env"] != "dev" || data["error"] != "permission denied" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestContextRoundTrip(t *testing.T) {
	log := slog.New(NewTestHandler(slog.LevelDebug))
	ctx := ToContext(context.Background(), log)

	if FromContext(ctx) != log {
		t.Fatalf("FromContext did not return stored logger")
	}
	if !IsDebugEnabled(ctx) {
		t.Fatalf("expected debug to be enabled")
	}
	if FromContext(context.Background()) == nil {
		t.Fatalf("FromContext returned nil without a stored logger")
	}
}
