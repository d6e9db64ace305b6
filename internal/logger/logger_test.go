package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("entry saved", "id", "abc")
	Warn("badge store unavailable")

	data, err := os.ReadFile(filepath.Join(logDir, "gratilog.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "entry saved") {
		t.Errorf("log file does not contain info message:\n%s", data)
	}
}

func TestInitDebugMode(t *testing.T) {
	err := Init(Config{
		Debug:     true,
		ConfigDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	Debug("Test debug message")
}

func TestForBeforeInit(t *testing.T) {
	Logger = nil

	l := For("journal")
	if l == nil {
		t.Fatal("For() returned nil before Init")
	}
	// Must not panic
	l.Warn("dropped")
	Error("dropped too")
}

func TestForUsesComponentPrefix(t *testing.T) {
	if err := Init(Config{ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if got := For("mood").GetPrefix(); got != "gratilog/mood" {
		t.Errorf("For(mood) prefix = %q, want gratilog/mood", got)
	}
}
