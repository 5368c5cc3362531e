// Package display holds human-facing formatting: the startup banner and the
// duration, resolution and size labels used in logs and sheet headers.
package display

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatDuration renders whole seconds as "1h 2m 3s", omitting zero
// components. Seconds are always shown when hours and minutes are both zero,
// so 0 renders as "0s". Fractions are truncated; negative input counts as 0.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	parts := make([]string, 0, 3)
	if h > 0 {
		parts = append(parts, strconv.FormatInt(h, 10)+"h")
	}
	if m > 0 {
		parts = append(parts, strconv.FormatInt(m, 10)+"m")
	}
	if s > 0 || len(parts) == 0 {
		parts = append(parts, strconv.FormatInt(s, 10)+"s")
	}
	return strings.Join(parts, " ")
}

// FormatResolution returns "WxH", or "unknown" when either side is missing.
func FormatResolution(width, height int) string {
	if width <= 0 || height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(width) + "x" + strconv.Itoa(height)
}

// FormatBytes returns a human-readable size (SI units, e.g. "1.5 MB").
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.Bytes(uint64(-bytes))
	}
	return humanize.Bytes(uint64(bytes))
}
