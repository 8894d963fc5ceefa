package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npratt/pomodoro/internal/config"
)

func TestSetupTUILogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "pomodoro-debug.log")

	result, err := SetupTUILogger(path, slog.LevelInfo, config.Default().LogRotation)
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	if result.FilePath != path {
		t.Errorf("FilePath = %q, want %q", result.FilePath, path)
	}

	result.Logger.Info("test message", "key", "value")

	content, err := os.ReadFile(result.FilePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if !strings.Contains(string(content), "test message") {
		t.Errorf("log file should contain 'test message', got: %s", content)
	}
	if !strings.Contains(string(content), `"key":"value"`) {
		t.Errorf("log file should contain key=value, got: %s", content)
	}
}

func TestSetupTUILogger_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	level := &slog.LevelVar{}
	level.Set(slog.LevelWarn)

	result, err := SetupTUILogger(path, level, config.Default().LogRotation)
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	result.Logger.Info("quiet")
	result.Logger.Warn("loud")

	content, _ := os.ReadFile(path)
	if strings.Contains(string(content), "quiet") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(string(content), "loud") {
		t.Error("warn message should be written")
	}
}

func TestSetupTUILogger_DoesNotWriteToStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	result, err := SetupTUILogger(path, slog.LevelInfo, config.Default().LogRotation)
	if err != nil {
		os.Stderr = oldStderr
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	result.Logger.Info("this should not appear on stderr")

	_ = w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	if buf.Len() > 0 {
		t.Errorf("TUI logger wrote to stderr: %s", buf.String())
	}
}

func TestSetupTUILoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupTUILoggerWithWriter(&buf, slog.LevelDebug)

	logger.Debug("debug message", "phase", "focus")

	if !strings.Contains(buf.String(), `"phase":"focus"`) {
		t.Errorf("expected JSON output, got: %s", buf.String())
	}
}

func TestTUILoggerResult_CloseNil(t *testing.T) {
	r := &TUILoggerResult{}
	if err := r.Close(); err != nil {
		t.Errorf("Close with no file: %v", err)
	}
}
