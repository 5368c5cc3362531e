// Package term provides color state and terminal detection.
//
// Log lines are colored by zerolog's ConsoleWriter; the banner style here is
// for output written outside the logger. [Configure] resolves the color mode
// once during startup and toggles fatih/color globally; when colors are
// disabled the style prints plain text.
package term

import (
	"os"
	"strings"

	"github.com/fatih/color"
	xterm "golang.org/x/term"

	"github.com/backmassage/contactsheet/internal/config"
)

// Magenta styles the startup banner.
var Magenta = color.New(color.FgHiMagenta, color.Bold)

// Configure resolves the color mode and enables or disables styled output.
// Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	color.NoColor = !resolve(mode)
}

// Enabled reports whether colors are currently active.
func Enabled() bool { return !color.NoColor }

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}
