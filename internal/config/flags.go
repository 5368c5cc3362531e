package config

// This file implements CLI flag parsing and help text on top of urfave/cli.
// Negated flags (e.g. --no-color) are applied after parsing so Config
// defaults hold unless set.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// ErrHelpShown is returned by [ParseFlags] when --help or --version was
// handled and the program should exit successfully without running.
var ErrHelpShown = errors.New("help or version shown")

// ParseFlags parses args (including the program name at args[0]) into cfg.
// On --help or --version it prints and returns [ErrHelpShown]. On error it
// returns non-nil (e.g. unknown flag, missing positional args).
func ParseFlags(cfg *Config, args []string, version string) error {
	return parseFlags(cfg, args, version, os.Stdout)
}

func parseFlags(cfg *Config, args []string, version string, w io.Writer) error {
	var (
		negated negatedFlags
		invoked bool
	)

	app := newApp(cfg, &negated, version)
	app.Writer = w
	app.ErrWriter = w
	app.Action = func(c *cli.Context) error {
		invoked = true
		applyNegatedFlags(cfg, &negated)
		return parsePositionalArgs(c, cfg)
	}

	if err := app.Run(args); err != nil {
		return err
	}
	if !invoked {
		return ErrHelpShown
	}
	return nil
}

// negatedFlags holds values that are applied to cfg after parsing.
type negatedFlags struct {
	noColor bool
	color   string
}

// newApp builds the cli.App with every flag bound to cfg.
func newApp(cfg *Config, n *negatedFlags, version string) *cli.App {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print version and exit",
	}

	return &cli.App{
		Name:            "contactsheet",
		Usage:           "contact sheets (thumbnail grid + metadata) for a folder of videos",
		UsageText:       "contactsheet [OPTIONS] <input_dir> <output_dir>",
		Version:         version,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "font",
				Aliases:     []string{"F"},
				Usage:       "TrueType/OpenType font for the header (default: embedded Go Regular)",
				Destination: &cfg.FontPath,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Aliases:     []string{"d"},
				Usage:       "probe and plan only; do not extract or write sheets",
				Destination: &cfg.DryRun,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "verbose output",
				Destination: &cfg.Verbose,
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "colored logs: auto | always | never",
				Value:       string(cfg.ColorMode),
				Destination: &n.color,
			},
			&cli.BoolFlag{
				Name:        "no-color",
				Usage:       "disable colored logs",
				Destination: &n.noColor,
			},
			&cli.StringFlag{
				Name:        "log",
				Aliases:     []string{"l"},
				Usage:       "append logs to `FILE`",
				Destination: &cfg.LogFile,
			},
			&cli.BoolFlag{
				Name:        "check",
				Aliases:     []string{"c"},
				Usage:       "system diagnostics (ffmpeg, ffprobe, font) and exit",
				Destination: &cfg.CheckOnly,
			},
		},
	}
}

// applyNegatedFlags copies the color selection into cfg. --no-color wins
// over --color.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.color != "" {
		cfg.ColorMode = ColorMode(strings.ToLower(strings.TrimSpace(n.color)))
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	}
}

// parsePositionalArgs sets InputDir and OutputDir from the two positional args when not in CheckOnly mode.
func parsePositionalArgs(c *cli.Context, cfg *Config) error {
	if cfg.CheckOnly {
		return nil
	}
	if c.NArg() != 2 {
		return fmt.Errorf("need exactly input_dir and output_dir (got %d args)", c.NArg())
	}
	cfg.InputDir = NormalizeDirArg(c.Args().Get(0))
	cfg.OutputDir = NormalizeDirArg(c.Args().Get(1))
	return nil
}
