package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "ammsim", func(context.Context) string { return "" })

	log.Info(context.Background(), "dropped")
	log.Warn(context.Background(), "kept", "fee", 0.01)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("got %d records, want 1: %s", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal(lines[0], &rec); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec["msg"] != "kept" {
		t.Errorf("msg = %v, want kept", rec["msg"])
	}
	if rec["service"] != "ammsim" {
		t.Errorf("service = %v, want ammsim", rec["service"])
	}
	if rec["fee"] != 0.01 {
		t.Errorf("fee = %v, want 0.01", rec["fee"])
	}
}

func TestLogger_TraceID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelDebug, "ammsim", func(context.Context) string { return "abc123" })

	log.Debug(context.Background(), "traced")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec["trace_id"] != "abc123" {
		t.Errorf("trace_id = %v, want abc123", rec["trace_id"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_FieldsAndCaller(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelDebug, "ammsim", func(context.Context) string { return "" })

	log.Info(context.Background(), "fields", "error", errors.New("boom"), "dangling")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec["error"] != "boom" {
		t.Errorf("error = %v, want boom", rec["error"])
	}
	if rec["!BADKEY"] != "dangling" {
		t.Errorf("!BADKEY = %v, want dangling", rec["!BADKEY"])
	}
	if src, _ := rec["source"].(string); !strings.HasPrefix(src, "logger/logger_test.go:") {
		t.Errorf("source = %v, want the test file", rec["source"])
	}
}

func TestNewNop_Discards(t *testing.T) {
	log := NewNop()
	log.Error(context.Background(), "nothing")
	if err := log.Sync(); err != nil {
		t.Errorf("Sync() error = %v", err)
	}
}
