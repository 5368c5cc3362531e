package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/contactsheet/internal/config"
	"github.com/backmassage/contactsheet/internal/ffmpeg"
	"github.com/backmassage/contactsheet/internal/logging"
	"github.com/backmassage/contactsheet/internal/naming"
	"github.com/backmassage/contactsheet/internal/planner"
	"github.com/backmassage/contactsheet/internal/term"
)

// ExtractThumbnails grabs one frame per planned timestamp into dir, in
// order. A grab that times out or leaves no file is logged and skipped; the
// returned slice holds only the thumbnails that exist, in timestamp order.
// The only error returned is the context's, when the batch is interrupted.
func ExtractThumbnails(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	input, dir string,
	plan planner.ThumbPlan,
) ([]string, error) {
	bar := newThumbBar(cfg, plan.Count)
	defer bar.Finish()

	thumbs := make([]string, 0, plan.Count)
	for i, ts := range plan.Timestamps {
		out := naming.ThumbPath(dir, i)
		res := ffmpeg.ExtractFrame(ctx, cfg, input, ts, out)
		bar.Add(1)

		if ctx.Err() != nil {
			bar.Clear()
			return thumbs, ctx.Err()
		}

		switch {
		case res.Err == nil:
			log.Debug("  Thumbnail %d at %ds in %s", i+1, ts, res.Elapsed.Round(time.Millisecond))
			if res.ExitErr != nil {
				log.Debug("  Thumbnail %d: ffmpeg exited with %v but wrote a frame", i+1, res.ExitErr)
			}
			thumbs = append(thumbs, out)
		case errors.Is(res.Err, ffmpeg.ErrTimeout):
			bar.Clear()
			log.Warn("  Timeout: thumbnail %d at %ds took longer than %s", i+1, ts, cfg.ExtractTimeout)
		default:
			bar.Clear()
			log.Warn("  Thumbnail %d failed at %ds: %v", i+1, ts, res.Err)
			log.Debug("  Command: %s", strings.Join(res.Args, " "))
		}
	}
	return thumbs, nil
}

// newThumbBar returns a per-video progress bar on stderr. It renders only
// on an interactive terminal and stays quiet in verbose mode, where ffmpeg
// output is already streaming to stderr.
func newThumbBar(cfg *config.Config, n int) *progressbar.ProgressBar {
	var w io.Writer = io.Discard
	if !cfg.Verbose && term.IsTerminal(os.Stderr) {
		w = os.Stderr
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("  thumbnails"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}
