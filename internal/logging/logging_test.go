package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("bad level is rejected", func(t *testing.T) {
		if _, err := New(Options{Level: "loud"}); err == nil {
			t.Error("expected error for unknown level")
		}
	})

	t.Run("file sink receives lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		log, err := New(Options{Level: "info", File: path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		log.Infof(context.Background(), "hello %s", "world")

		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log: %v", err)
		}
		if !strings.Contains(string(b), "hello world") {
			t.Errorf("log line missing: %s", b)
		}
	})

	t.Run("nop logger is silent and safe", func(t *testing.T) {
		log := NewNop()
		log.Debugf(context.Background(), "x")
		log.Warnf(context.Background(), "x")
		log.Errorf(context.Background(), "x")
	})
}
