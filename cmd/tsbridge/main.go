// Package main is a command-line harness for the bridge: it launches the
// language worker, opens the files given on the command line, and prints
// diagnostics markers as the worker reports them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/editkit/tsbridge/internal/bridge"
	"github.com/editkit/tsbridge/internal/config"
	"github.com/editkit/tsbridge/internal/host"
	"github.com/editkit/tsbridge/internal/logging"
	"github.com/editkit/tsbridge/internal/worker"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var showVersion bool
	var logLevel string

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tsbridge - editor bridge to a TypeScript language worker\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tsbridge [options] files...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("tsbridge %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	if flag.NArg() == 0 {
		flag.Usage()
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Launch the worker.
	proc := worker.NewProcess(worker.ProcessConfig{
		Command: cfg.Worker.Command,
		Args:    cfg.Worker.Args,
		WorkDir: cfg.Worker.WorkDir,
	}, log.WithComponent("worker"))

	workspace, _ := os.Getwd()
	if err := proc.Start(ctx, worker.NewMetadata(workspace)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: start worker: %v\n", err)
		return 1
	}
	defer proc.Stop()

	transport := proc.Transport()

	// Wire the bridge over the worker transport and an in-memory host.
	registry := host.NewRegistry()
	registry.OnMarkers(printMarkers)

	br := bridge.New(transport, registry, registry,
		bridge.WithLogger(log.WithComponent("bridge")),
		bridge.WithManagedLanguages(cfg.Languages),
		bridge.WithBackgroundDiagnostics(cfg.Diagnostics.Background),
	)
	transport.OnMessage(br.HandleRaw)
	transport.Start(ctx)

	// Surface config file changes; applying them needs a worker restart.
	var watcher *config.Watcher
	if configPath != "" {
		watcher, err = config.NewWatcher(configPath, func(config.Config) {
			log.Info("config change noted; restart to apply worker settings")
		}, log.WithComponent("config"))
		if err != nil {
			log.Warn("config watch: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	// One editor tab per file; the first one gets focus.
	editor := br.NewEditor("cli")
	registry.SetFocus("cli")

	for i, path := range flag.Args() {
		abs, err := filepath.Abs(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		doc, err := registry.Open(abs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open %s: %v\n", path, err)
			return 1
		}
		if i == 0 {
			registry.SetActive(abs)
			editor.SetDocument(doc)
		}
	}

	if doc, ok := registry.ActiveDocument(); ok {
		br.RequestDiagnostics(doc.Path())
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-signals:
	case err := <-proc.Done():
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: worker: %v\n", err)
			return 1
		}
	}

	editor.Close()
	return 0
}

// newLogger builds the process logger, opening the log file when one is
// configured. The returned func closes it.
func newLogger(cfg config.Config) (*logging.Logger, func(), error) {
	lcfg := logging.DefaultConfig()
	lcfg.Level = cfg.LogLevel()

	if cfg.Log.File == "" {
		return logging.New(lcfg), func() {}, nil
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	lcfg.Output = f
	return logging.New(lcfg), func() { f.Close() }, nil
}

func printMarkers(path string, markers []bridge.Marker) {
	for _, m := range markers {
		fmt.Printf("%s:%d:%d: %s: %s\n",
			path, m.StartLine+1, m.StartCol+1, m.Severity, m.Message)
	}
}
