package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger_NilWriter(t *testing.T) {
	l := NewLogger("test", nil, slog.LevelInfo)
	if l == nil {
		t.Fatal("NewLogger with nil writer returned nil")
	}
	// Should not panic on log call.
	l.Debug("test message")
}

func TestLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("mem.db", &buf, slog.LevelDebug)
	l.Debug("memory opened", "path", "mem.db")

	output := buf.String()
	if !strings.Contains(output, "memory opened") {
		t.Errorf("output missing message: %s", output)
	}
	if !strings.Contains(output, `"source":"mem.db"`) {
		t.Errorf("output missing source: %s", output)
	}

	// Should be valid JSON.
	var m map[string]any
	if err := json.Unmarshal([]byte(output), &m); err != nil {
		t.Errorf("invalid JSON: %v", err)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("mem.db", &buf, slog.LevelError)
	l.Debug("debug msg")

	if buf.Len() != 0 {
		t.Errorf("expected nothing below ERROR, got %s", buf.String())
	}

	l.Fault("clear", "", errors.New("boom"))
	if !strings.Contains(buf.String(), "storage fault") {
		t.Error("fault not logged at ERROR")
	}
}

func TestLogger_Fault(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("mem.db", &buf, slog.LevelDebug)
	l.Fault("remember", "user_name", errors.New("disk I/O error"))

	output := buf.String()
	for _, want := range []string{
		`"msg":"storage fault"`,
		`"source":"mem.db"`,
		`"op":"remember"`,
		`"key":"user_name"`,
		`"error":"disk I/O error"`,
		`"level":"ERROR"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %s in %s", want, output)
		}
	}
}

func TestLogger_Fault_NoKey(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("mem.db", &buf, slog.LevelDebug)
	l.Fault("clear", "", errors.New("boom"))

	if strings.Contains(buf.String(), `"key"`) {
		t.Errorf("key field should be omitted: %s", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("mem.db", &buf, slog.LevelDebug)
	l2 := l.With("handle", "h_123")

	l2.Debug("with context")
	if !strings.Contains(buf.String(), `"handle":"h_123"`) {
		t.Errorf("With context not found: %s", buf.String())
	}

	// Original logger should not have the context field.
	buf.Reset()
	l.Debug("without context")
	if strings.Contains(buf.String(), "h_123") {
		t.Errorf("With leaked into parent: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
