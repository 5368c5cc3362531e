package ffmpeg

import (
	"strconv"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/backmassage/contactsheet/internal/config"
)

// BuildThumbnailArgs constructs the complete ffmpeg argument slice for one
// frame grab. The seek is an input option so ffmpeg jumps to the nearest
// keyframe before decoding, which keeps each grab fast on long files.
//
// The returned slice starts with the binary name, ready for exec.
func BuildThumbnailArgs(cfg *config.Config, input string, ts int, output string) []string {
	stream := ffmpeggo.
		Input(input, ffmpeggo.KwArgs{"ss": strconv.Itoa(ts)}).
		Output(output, ffmpeggo.KwArgs{
			"frames:v": 1,
			"q:v":      cfg.FrameQuality,
		}).
		OverWriteOutput()

	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin")
	if cfg.Verbose {
		args = append(args, "-loglevel", "warning")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Input, output, overwrite ---
	return append(args, stream.GetArgs()...)
}
