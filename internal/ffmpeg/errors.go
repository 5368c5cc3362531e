package ffmpeg

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrTimeout is returned when a grab exceeds its per-call deadline.
	ErrTimeout = errors.New("frame extraction timed out")
	// ErrNoOutput is returned when ffmpeg finishes but the frame file is
	// missing or empty.
	ErrNoOutput = errors.New("ffmpeg produced no output file")
)

// Pre-compiled regexes for turning ffmpeg stderr into a short reason for the
// skip warning. Checked in order by [Classify].
var (
	reSeekPastEnd = regexp.MustCompile(
		`(?i)Output file is empty, nothing was encoded|` +
			`Output file #\d+ does not contain any stream`)

	reUnreadableInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|` +
			`moov atom not found|` +
			`No such file or directory|` +
			`could not find codec parameters`)

	reDecoderMissing = regexp.MustCompile(
		`(?i)Decoder \(codec [^)]*\) not found|` +
			`Unknown decoder|` +
			`No decoder for`)
)

// Classify maps ffmpeg stderr to a short human reason. When no known
// pattern matches, the last non-empty stderr line is returned instead.
func Classify(stderr string) string {
	switch {
	case reSeekPastEnd.MatchString(stderr):
		return "seek past end of stream"
	case reUnreadableInput.MatchString(stderr):
		return "input unreadable"
	case reDecoderMissing.MatchString(stderr):
		return "no decoder for video stream"
	}
	return lastLine(stderr)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
