package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"media-cutter/infrastructure/config"

	"go.uber.org/zap"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() unexpected error: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("export saved", zap.String("asset", "/lib/a.mov"))
	logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "export saved" || entry["asset"] != "/lib/a.mov" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(config.LoggingConfig{Level: "debug", Format: "console"}, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() unexpected error: %v", err)
	}

	logger.Debug("cutting segment", zap.Int("index", 0))
	logger.Sync()

	if !strings.Contains(buf.String(), "cutting segment") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestNewWithWriter_Errors(t *testing.T) {
	if _, err := NewWithWriter(config.LoggingConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for an unknown level")
	}
	if _, err := NewWithWriter(config.LoggingConfig{Level: "info", Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for an unknown format")
	}
}
