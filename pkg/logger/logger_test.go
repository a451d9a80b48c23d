package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/lrivero/macrolens/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"garbage", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.expected {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := New(cfg)
	if log == nil {
		t.Fatal("expected logger to be created")
	}

	// Derived loggers should not mutate the parent
	child := log.WithField("component", "test")
	if child == log {
		t.Error("WithField should return a new logger")
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	// Must not panic
	log.Info("discarded")
	log.WithError(nil).Warn("discarded")
}
