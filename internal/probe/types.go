package probe

import (
	"math"
	"strconv"
	"strings"

	"github.com/backmassage/contactsheet/internal/display"
)

// Keys read from the ffprobe output.
const (
	KeyDuration = "duration"
	KeyWidth    = "width"
	KeyHeight   = "height"
)

// DefaultAspect is used when the source dimensions are unknown.
const DefaultAspect = 16.0 / 9.0

// Metadata is the transient per-video record: duration in seconds (never
// negative) and the pixel dimensions of the last reported video stream.
// Width and Height are 0 when ffprobe did not report a usable value.
type Metadata struct {
	Path     string
	Duration float64
	Width    int
	Height   int
}

// FromFields builds Metadata from parsed key=value pairs. Missing, "N/A",
// non-finite or negative durations become 0; unparsable or non-positive
// dimensions become 0.
func FromFields(fields map[string]string) *Metadata {
	return &Metadata{
		Duration: parseDuration(fields[KeyDuration]),
		Width:    parseDimension(fields[KeyWidth]),
		Height:   parseDimension(fields[KeyHeight]),
	}
}

// AspectRatio returns Width/Height, or [DefaultAspect] (16:9) when either
// dimension is unknown.
func (m *Metadata) AspectRatio() float64 {
	if m.Width <= 0 || m.Height <= 0 {
		return DefaultAspect
	}
	return float64(m.Width) / float64(m.Height)
}

// Resolution returns "WxH", or "unknown".
func (m *Metadata) Resolution() string {
	return display.FormatResolution(m.Width, m.Height)
}

func parseDuration(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func parseDimension(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
