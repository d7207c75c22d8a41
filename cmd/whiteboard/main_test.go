package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hy4ri/whiteboard-tui/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("expected version in output, got %q", out)
	}
}

func TestInitWritesLoadableTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "", "init", "--config", path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Config file created") {
		t.Errorf("unexpected output %q", out)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if cfg.Board.LogoutAt != "20:00" {
		t.Errorf("expected default logout time, got %q", cfg.Board.LogoutAt)
	}
}

func TestInitKeepsExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  url: http://example.test\n"), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "n\n", "init", "--config", path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Aborted.") {
		t.Errorf("expected abort, got %q", out)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "example.test") {
		t.Error("expected existing config untouched")
	}

	if _, err := execute(t, "", "init", "--force", "--config", path); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "Whiteboard TUI Configuration") {
		t.Error("expected --force to overwrite")
	}
}

func TestStatusRejectsUnknownValue(t *testing.T) {
	_, err := execute(t, "", "status", "sleeping")
	if err == nil || !strings.Contains(err.Error(), "unknown status") {
		t.Errorf("expected unknown status error, got %v", err)
	}
}
