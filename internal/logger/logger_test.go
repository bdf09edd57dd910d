package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if _, err := os.Stat(filepath.Dir(LogPath(configDir))); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", filepath.Dir(LogPath(configDir)))
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message", "date", "2025-10-10")
	Warn("Test warning message")
	Error("Test error message")
}

func TestLogPath(t *testing.T) {
	got := LogPath("/tmp/cfg")
	if got != filepath.Join("/tmp/cfg", "logs", "tally.log") {
		t.Errorf("LogPath() = %q", got)
	}
}

func TestOutputAndLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Output: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	Debug("hidden")
	Info("entry saved", "date", "2025-10-10")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "entry saved") || !strings.Contains(out, "2025-10-10") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Logger = nil
	// must not panic
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}
