package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	if !ValidLevel("Warning") {
		t.Error("expected Warning to be valid")
	}
	if ValidLevel("trace") {
		t.Error("expected trace to be invalid")
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")

	logger.Info("hidden message")
	logger.Warn("visible message")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible message") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNew_JSONWithTool(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", "json").WithTool("search_string").WithSession("s-1")

	logger.Debug("walking", "folder", "/tmp")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}

	if entry["tool"] != "search_string" {
		t.Errorf("tool attribute = %v", entry["tool"])
	}
	if entry["session"] != "s-1" {
		t.Errorf("session attribute = %v", entry["session"])
	}
	if entry["folder"] != "/tmp" {
		t.Errorf("folder attribute = %v", entry["folder"])
	}
}
