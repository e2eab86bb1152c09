package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	if err != nil || lvl != zapcore.InfoLevel {
		t.Fatalf("expected info default, got %v %v", lvl, err)
	}
	lvl, err = ParseLevel(" DEBUG ")
	if err != nil || lvl != zapcore.DebugLevel {
		t.Fatalf("expected debug, got %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected invalid level error")
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pinscore.log")
	logger, err := New("info", path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("ball committed", zap.Int("frame", 1), zap.String("ball", "X"))
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"ball committed"`) || !strings.Contains(out, `"ball":"X"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry written at info level")
	}
}

func TestNewWithoutPathIsNop(t *testing.T) {
	logger, err := New("warn", "")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Warn("dropped")
}
