package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestBuild_ConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := build(Config{Level: "warn"}, zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warnw("shown", "mode", "draw")
	logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "draw") {
		t.Errorf("console output missing warn line: %q", out)
	}
}

func TestBuild_InvalidLevel(t *testing.T) {
	if _, _, err := build(Config{Level: "loud"}, zapcore.AddSync(&bytes.Buffer{})); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestBuild_FileTee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airpointer.log")
	cfg := DefaultConfig()
	cfg.File = path

	var buf bytes.Buffer
	logger, closer, err := build(cfg, zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}

	logger.Infow("session started", "id", 7)
	logger.Sync()
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"session started"`) {
		t.Errorf("log file should hold JSON lines, got %q", data)
	}
	if !strings.Contains(buf.String(), "session started") {
		t.Error("console should receive the same line")
	}
}
