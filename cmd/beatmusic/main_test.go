package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// run must report setup problems as errors so main's cleanup still executes;
// none of these paths may exit the process.
func TestRunReturnsSetupErrors(t *testing.T) {
	logger := zap.NewNop()

	if err := run(logger, nil); err == nil || !strings.Contains(err.Error(), "usage") {
		t.Fatalf("missing argv: got %v, want usage error", err)
	}

	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if err := run(logger, []string{missing}); err == nil {
		t.Fatal("missing config file: expected error")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	data := []byte(`
monitor:
  sensor:
    channel: 9
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	err := run(zap.NewNop(), []string{path})
	if err == nil || !strings.Contains(err.Error(), "validate config") {
		t.Fatalf("got %v, want validation error", err)
	}
}
