package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
		{"empty level", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level, "text", &bytes.Buffer{})
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := New("info", "json", &buf)

	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	log.Warn(ctx, "warn message")
	log.Error(ctx, "error message")
	log.Info(ctx, "formatted message: %s %d", "test", 123)

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Errorf("debug line written at info level: %s", out)
	}
	for _, want := range []string{"info message", "warn message", "error message", "formatted message: test 123"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf).With("model", "gemini-2.5-pro")
	log.Info(context.Background(), "loaded")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["model"] != "gemini-2.5-pro" {
		t.Errorf("model field = %v, want gemini-2.5-pro", entry["model"])
	}
	if entry["message"] != "loaded" {
		t.Errorf("message = %v, want loaded", entry["message"])
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		write       func(Logger)
		logged      bool
	}{
		{"debug logs at debug level", "debug", func(l Logger) { l.Debug(context.Background(), "line") }, true},
		{"info logs at debug level", "debug", func(l Logger) { l.Info(context.Background(), "line") }, true},
		{"debug doesn't log at info level", "info", func(l Logger) { l.Debug(context.Background(), "line") }, false},
		{"info logs at info level", "info", func(l Logger) { l.Info(context.Background(), "line") }, true},
		{"warn doesn't log at error level", "error", func(l Logger) { l.Warn(context.Background(), "line") }, false},
		{"error always logs", "debug", func(l Logger) { l.Error(context.Background(), "line") }, true},
		{"unknown level falls back to info", "loud", func(l Logger) { l.Debug(context.Background(), "line") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(New(tt.configLevel, "json", &buf))
			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v", got, tt.logged)
			}
		})
	}
}

func TestNopDiscards(t *testing.T) {
	Nop().Error(context.Background(), "nothing %d", 1)
}
