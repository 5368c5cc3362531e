package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/backmassage/contactsheet/internal/config"
)

// waitDelay bounds how long Wait blocks on inherited pipes after the
// process has been killed.
const waitDelay = 2 * time.Second

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Args    []string
	Stderr  string
	Elapsed time.Duration
	// ExitErr is the raw process error. It may be set while Err is nil:
	// ffmpeg sometimes exits non-zero after writing a usable frame.
	ExitErr error
	// Err is nil when a non-empty frame file exists at the output path.
	Err error
}

// ExtractFrame grabs the frame at ts seconds from input into output, bounded
// by cfg.ExtractTimeout. When verbose is enabled, stderr is tee'd to
// os.Stderr in real time; otherwise it is captured silently for the warning.
func ExtractFrame(ctx context.Context, cfg *config.Config, input string, ts int, output string) ExecResult {
	args := BuildThumbnailArgs(cfg, input, ts, output)

	runCtx, cancel := context.WithTimeout(ctx, cfg.ExtractTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.WaitDelay = waitDelay

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	start := time.Now()
	runErr := cmd.Run()
	res := ExecResult{
		Args:    args,
		Stderr:  stderrBuf.String(),
		Elapsed: time.Since(start),
		ExitErr: runErr,
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		res.Err = fmt.Errorf("%w after %s at %ds", ErrTimeout, cfg.ExtractTimeout, ts)
		return res
	case ctx.Err() != nil:
		res.Err = ctx.Err()
		return res
	}

	var startErr *exec.Error
	if errors.As(runErr, &startErr) {
		res.Err = fmt.Errorf("run ffmpeg: %w", runErr)
		return res
	}

	if fi, err := os.Stat(output); err != nil || fi.Size() == 0 {
		if reason := Classify(res.Stderr); reason != "" {
			res.Err = fmt.Errorf("%w at %ds: %s", ErrNoOutput, ts, reason)
		} else {
			res.Err = fmt.Errorf("%w at %ds", ErrNoOutput, ts)
		}
	}
	return res
}
