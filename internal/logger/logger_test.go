package logger

import (
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

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("disk almost full", "free_mb", 12)

	data, err := os.ReadFile(filepath.Join(logDir, "habits.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "disk almost full") {
		t.Errorf("Log file does not contain the warning: %q", data)
	}
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantInfo bool
	}{
		{"cli default", Config{}, false},
		{"server", Config{Server: true}, true},
		{"debug", Config{Debug: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ConfigDir = t.TempDir()
			if err := Init(tt.cfg); err != nil {
				t.Fatalf("Init failed: %v", err)
			}

			Info("request served", "status", 200)

			data, _ := os.ReadFile(filepath.Join(tt.cfg.ConfigDir, "logs", "habits.log"))
			if got := strings.Contains(string(data), "request served"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestInitJSON(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir, Server: true, JSON: true}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	With("request_id", "abc").Info("toggled")

	data, _ := os.ReadFile(filepath.Join(dir, "logs", "habits.log"))
	if !strings.Contains(string(data), `"request_id":"abc"`) {
		t.Errorf("expected JSON line with request_id, got %q", data)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	With("k", "v").Info("discarded")
}
