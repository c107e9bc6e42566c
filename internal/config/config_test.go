package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/editkit/tsbridge/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Worker.Command != "tsserver" {
		t.Errorf("Worker.Command = %q, want tsserver", cfg.Worker.Command)
	}
	if len(cfg.Languages) != 2 {
		t.Errorf("Languages = %v, want two defaults", cfg.Languages)
	}
	if !cfg.Diagnostics.Background {
		t.Error("Diagnostics.Background = false, want true by default")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Worker.Command != "tsserver" {
		t.Errorf("got %q, want defaults", cfg.Worker.Command)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "bridge.toml", `
languages = ["typescript"]

[worker]
command = "node"
args = ["tsserver.js", "--stdio"]

[diagnostics]
background = false

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Worker.Command != "node" {
		t.Errorf("Worker.Command = %q, want node", cfg.Worker.Command)
	}
	if len(cfg.Worker.Args) != 2 {
		t.Errorf("Worker.Args = %v, want two args", cfg.Worker.Args)
	}
	if cfg.Diagnostics.Background {
		t.Error("Diagnostics.Background = true, want false")
	}
	if cfg.LogLevel() != logging.LevelDebug {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "bridge.yaml", `
worker:
  command: tsserver
languages:
  - typescriptreact
log:
  level: warn
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Languages) != 1 || cfg.Languages[0] != "typescriptreact" {
		t.Errorf("Languages = %v, want [typescriptreact]", cfg.Languages)
	}
	if cfg.LogLevel() != logging.LevelWarn {
		t.Errorf("LogLevel() = %v, want warn", cfg.LogLevel())
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "bridge.ini", "command=tsserver")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Worker.Command = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty worker command")
	}

	cfg = Default()
	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}
}
