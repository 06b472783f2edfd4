package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewJSONLoggerToTagsService(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLoggerTo(&buf, "api", "info")

	logger.Info("started", "port", "8000")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["service"] != "api" {
		t.Fatalf("service = %v", entry["service"])
	}
	if entry["msg"] != "started" {
		t.Fatalf("msg = %v", entry["msg"])
	}
}

func TestNewJSONLoggerToFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLoggerTo(&buf, "api", "warn")

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info line should be filtered at warn level: %q", buf.String())
	}
	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Fatal("warn line should be emitted")
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	for _, level := range []string{"", "verbose", "INFO"} {
		if got := parseLevel(level); got != slog.LevelInfo {
			t.Fatalf("parseLevel(%q) = %v", level, got)
		}
	}
	if got := parseLevel("Debug"); got != slog.LevelDebug {
		t.Fatalf("parseLevel(Debug) = %v", got)
	}
}
