// Command contactsheet is the CLI entrypoint for the contact sheet generator.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check) or the batch sheet pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/contactsheet/internal/check"
	"github.com/backmassage/contactsheet/internal/config"
	"github.com/backmassage/contactsheet/internal/display"
	"github.com/backmassage/contactsheet/internal/logging"
	"github.com/backmassage/contactsheet/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build", these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args, version); err != nil {
		if errors.Is(err, config.ErrHelpShown) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "contactsheet: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "contactsheet: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "contactsheet: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Resolve paths: input must be an existing directory, output is created
	// if needed.
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return 1
	}
	if fi, err := os.Stat(inputAbs); err != nil || !fi.IsDir() {
		log.Error("Input is not a directory: %s", cfg.InputDir)
		return 1
	}
	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Error("Cannot create output directory: %s", cfg.OutputDir)
			return 1
		}
	}
	cfg.InputDir = inputAbs
	if outputAbs, err := filepath.Abs(cfg.OutputDir); err == nil {
		cfg.OutputDir = outputAbs
	}

	log.Info("=== contactsheet v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}
	log.Info("")

	// Fail fast if ffmpeg/ffprobe or the font are unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling. SIGINT/SIGTERM cancels the context, which
	// kills the ffmpeg call in flight and stops the batch before the next video.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, cleaning up current video…")
		cancel()
	}()

	// Phase 4: Run pipeline (discover → probe → extract → compose → write).
	stats := pipeline.Run(ctx, &cfg, log)

	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
