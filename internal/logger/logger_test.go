package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "viewer.log")

	// 1MB is the smallest size lumberjack rotates at.
	err := InitWithOptions(Options{
		Level: "debug",
		File: FileConfig{
			Path:       logFile,
			MaxSizeMB:  1,
			MaxBackups: 2,
			MaxAgeDays: 1,
		},
	})
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	longMessage := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("entry %d: %s", i, longMessage)
	}
	Sync()

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	var rotated int
	var current bool
	for _, f := range files {
		switch {
		case f.Name() == "viewer.log":
			current = true
		case strings.HasPrefix(f.Name(), "viewer-20") && strings.HasSuffix(f.Name(), ".log"):
			rotated++
		}
	}
	if !current {
		t.Error("current log file does not exist")
	}
	if rotated == 0 {
		t.Errorf("expected rotated log files, found %d entries", len(files))
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"error message"}, []string{"warn message", "info message", "debug message"}},
		{"warn", []string{"error message", "warn message"}, []string{"info message", "debug message"}},
		{"info", []string{"error message", "warn message", "info message"}, []string{"debug message"}},
		{"debug", []string{"error message", "warn message", "info message", "debug message"}, nil},
		{"bogus", []string{"info message"}, []string{"debug message"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			if err := InitWithOptions(Options{Level: tt.level, Console: &buf}); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			out := buf.String()
			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %q in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %q in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestFileOutputIsJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "viewer.log")
	if err := InitWithOptions(Options{Level: "info", File: DefaultFileConfig(logFile)}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Named("controller").Info("mesh rebuilt", zap.Int("edges", 4))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, content)
	}
	if entry["logger"] != "controller" {
		t.Errorf("expected logger name controller, got %v", entry["logger"])
	}
	if entry["msg"] != "mesh rebuilt" {
		t.Errorf("unexpected msg %v", entry["msg"])
	}
	if entry["edges"] != float64(4) {
		t.Errorf("expected edges field 4, got %v", entry["edges"])
	}
}

func TestDevelopmentDPanic(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOptions(Options{Level: "info", Console: &buf, Development: true}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected DPanic to panic in development mode")
		}
	}()
	Log.DPanic("contract violated")
}

func TestProductionDPanic(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOptions(Options{Level: "info", Console: &buf}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	Log.DPanic("contract violated")
	if !strings.Contains(buf.String(), "contract violated") {
		t.Error("expected DPanic entry to be logged")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
