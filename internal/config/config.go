// Package config provides bridge configuration loading.
//
// Configuration files may be TOML or YAML, selected by extension. A
// missing file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/editkit/tsbridge/internal/logging"
)

// WorkerConfig defines how to launch the language worker.
type WorkerConfig struct {
	// Command is the worker executable.
	Command string `toml:"command" yaml:"command"`

	// Args are command-line arguments.
	Args []string `toml:"args" yaml:"args"`

	// WorkDir is the worker's working directory.
	WorkDir string `toml:"workdir" yaml:"workdir"`
}

// DiagnosticsConfig controls diagnostics refresh behavior.
type DiagnosticsConfig struct {
	// Background requests diagnostics for edited documents even when
	// they are not the active one.
	Background bool `toml:"background" yaml:"background"`
}

// LogConfig controls bridge logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`

	// File is the log destination path. Empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// Config is the full bridge configuration.
type Config struct {
	Worker WorkerConfig `toml:"worker" yaml:"worker"`

	// Languages lists the language tags the bridge manages.
	Languages []string `toml:"languages" yaml:"languages"`

	Diagnostics DiagnosticsConfig `toml:"diagnostics" yaml:"diagnostics"`

	Log LogConfig `toml:"log" yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Worker: WorkerConfig{
			Command: "tsserver",
		},
		Languages: []string{"typescript", "typescriptreact"},
		Diagnostics: DiagnosticsConfig{
			Background: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path, applying defaults for
// anything unset. A missing file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if c.Worker.Command == "" {
		return fmt.Errorf("worker.command must not be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}
