// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. The sheet layout is fixed; only paths, font, and display
// behavior come from the command line.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths (set from positional args).
	InputDir  string
	OutputDir string

	// Discovery.
	Extensions []string // Fixed: .mov .avi .mp4 .hap .hapq .dxv (case-insensitive).

	// Thumbnail extraction.
	Thumbnails     int           // Fixed: 8.
	ExtractTimeout time.Duration // Fixed: 10s per ffmpeg call.
	FrameQuality   int           // Fixed: 2 (ffmpeg -q:v, lower is better).

	// Sheet layout.
	Rows           int     // Fixed: 2.
	Cols           int     // Fixed: 4.
	SheetWidth     int     // Fixed: 2560.
	SheetHeight    int     // Fixed: 1440.
	TextAreaHeight int     // Fixed: 400. Reserved header band.
	ThumbPadding   int     // Fixed: 10.
	TextMargin     int     // Fixed: 20. Left and top offset of the header.
	LineGap        int     // Fixed: 20. Added to FontSize between header lines.
	FontSize       float64 // Fixed: 75 (pixels at 72 DPI).
	FontPath       string  // Optional TTF/OTF; empty uses the embedded Go Regular face.
	JPEGQuality    int     // Fixed: 75.

	// Behavior and display.
	DryRun    bool
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config holding the fixed sheet constants. Used as
// the base before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Extensions:     []string{".mov", ".avi", ".mp4", ".hap", ".hapq", ".dxv"},
		Thumbnails:     8,
		ExtractTimeout: 10 * time.Second,
		FrameQuality:   2,
		Rows:           2,
		Cols:           4,
		SheetWidth:     2560,
		SheetHeight:    1440,
		TextAreaHeight: 400,
		ThumbPadding:   10,
		TextMargin:     20,
		LineGap:        20,
		FontSize:       75,
		JPEGQuality:    75,
		ColorMode:      ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks the color mode and the layout constants. When not in
// CheckOnly mode, it also requires that both directory paths are non-empty.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if c.Thumbnails < 1 {
		return errors.New("thumbnail count must be at least 1")
	}
	if c.Rows < 1 || c.Cols < 1 {
		return errors.New("grid must have at least one row and one column")
	}
	if c.ExtractTimeout <= 0 {
		return errors.New("extraction timeout must be positive")
	}
	if c.FontSize <= 0 {
		return errors.New("font size must be positive")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG quality %d out of range 1-100", c.JPEGQuality)
	}
	gridTop := c.TextAreaHeight + c.ThumbPadding
	if c.SheetHeight-gridTop-c.ThumbPadding*(c.Rows+1) < c.Rows {
		return fmt.Errorf("sheet height %d leaves no room for %d rows", c.SheetHeight, c.Rows)
	}
	if c.SheetWidth-c.ThumbPadding*(c.Cols+1) < c.Cols {
		return fmt.Errorf("sheet width %d leaves no room for %d columns", c.SheetWidth, c.Cols)
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("need exactly input_dir and output_dir")
	}
	return nil
}
