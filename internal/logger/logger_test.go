package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
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
	if Logger.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, want warn", Logger.GetLevel())
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want log.Level
	}{
		{"stderr", Config{Stderr: true}, log.InfoLevel},
		{"debug", Config{Debug: true}, log.DebugLevel},
		{"debug wins", Config{Debug: true, Stderr: true}, log.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ConfigDir = t.TempDir()
			if err := Init(tt.cfg); err != nil {
				t.Fatalf("Init: %v", err)
			}
			if Logger.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", Logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	Logger = New(&buf, log.InfoLevel, false)
	defer func() { Logger = nil }()

	With("component", "api").Info("started")

	out := buf.String()
	if !strings.Contains(out, "component=api") || !strings.Contains(out, "started") {
		t.Errorf("unexpected output %q", out)
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
