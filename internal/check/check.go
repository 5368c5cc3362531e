// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, and the sheet font.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmassage/contactsheet/internal/config"
	"github.com/backmassage/contactsheet/internal/display"
	"github.com/backmassage/contactsheet/internal/ffmpeg"
	"github.com/backmassage/contactsheet/internal/planner"
	"github.com/backmassage/contactsheet/internal/sheet"
)

// Sentinel errors returned by CheckDeps when a required tool or the font is unusable.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrFontUnusable    = errors.New("font cannot be loaded")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Decoders worth reporting: the VJ codecs among the accepted extensions
// need ffmpeg builds that include them.
var interestingDecoders = []string{"hap", "dxv"}

// RunCheck runs the interactive --check flow: tool versions, HAP/DXV
// decoders, font loading, a one-frame test grab, and a test sheet. It keeps
// going after a failure and returns false if any required step failed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "ffmpeg")
	ok = checkTool(log, "ffprobe") && ok
	if ok {
		checkDecoders(log)
	}
	ok = checkFont(cfg, log) && ok
	if ok {
		ok = checkExtraction(cfg, log)
	}

	if ok {
		log.Success("All checks passed")
	} else {
		log.Error("Some checks failed")
	}
	return ok
}

// checkTool verifies name is on PATH and logs its version string.
func checkTool(log Logger, name string) bool {
	path, err := exec.LookPath(name)
	if err != nil {
		log.Error("%s not found", name)
		return false
	}
	log.Debug("%s: %s", name, path)
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
	return true
}

// checkDecoders lists the HAP and DXV decoders reported by ffmpeg. Missing
// decoders are a warning only: those files will fail to grab, but other
// formats still work.
func checkDecoders(log Logger) {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-decoders").Output()
	if err != nil {
		log.Warn("Could not list decoders: %v", err)
		return
	}
	lines := strings.Split(string(out), "\n")
	for _, name := range interestingDecoders {
		found := false
		for _, line := range lines {
			fields := strings.Fields(line)
			if len(fields) >= 2 && fields[1] == name {
				log.Info("  decoder %s", strings.TrimSpace(line))
				found = true
			}
		}
		if !found {
			log.Warn("  No %s decoder: .%s files will get empty sheets", name, name)
		}
	}
}

// checkFont loads the configured face at the configured size.
func checkFont(cfg *config.Config, log Logger) bool {
	face, err := sheet.LoadFace(cfg.FontPath, cfg.FontSize)
	if err != nil {
		log.Error("Font: %v", err)
		return false
	}
	defer face.Close()
	if cfg.FontPath == "" {
		log.Success("Font: embedded Go Regular at %.0fpx", cfg.FontSize)
	} else {
		log.Success("Font: %s at %.0fpx", cfg.FontPath, cfg.FontSize)
	}
	return true
}

// checkExtraction grabs one frame from a synthetic ffmpeg source using the
// same arguments as a real run, then draws and encodes a sheet from it.
// Nothing is left behind.
func checkExtraction(cfg *config.Config, log Logger) bool {
	dir, err := os.MkdirTemp("", "contactsheet-check-")
	if err != nil {
		log.Error("Cannot create temp directory: %v", err)
		return false
	}
	defer os.RemoveAll(dir)

	log.Info("Testing frame extraction...")
	clip := filepath.Join(dir, "source.mp4")
	if !runSilent("ffmpeg",
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=size=320x180:rate=10:duration=2",
		"-pix_fmt", "yuv420p", "-y", clip,
	) {
		log.Error("Could not generate a test clip with ffmpeg")
		return false
	}
	thumb := filepath.Join(dir, "thumb_1.jpg")
	if res := ffmpeg.ExtractFrame(context.Background(), cfg, clip, 1, thumb); res.Err != nil {
		log.Error("Frame extraction failed: %v", res.Err)
		return false
	}
	log.Success("Frame extraction works")

	log.Info("Testing sheet composition...")
	comp, err := sheet.NewComposer(cfg)
	if err != nil {
		log.Error("Composer: %v", err)
		return false
	}
	defer comp.Close()

	layout := planner.ComputeLayout(planner.GeometryFromConfig(cfg), 16.0/9.0)
	img, pasted := comp.Compose(sheet.HeaderInfo{Name: "source.mp4", Duration: 2, Width: 320, Height: 180},
		planner.PadThumbnails([]string{thumb}, cfg.Thumbnails), layout)
	if pasted == 0 {
		log.Error("Test thumbnail could not be decoded")
		return false
	}
	size, err := sheet.WriteJPEG(filepath.Join(dir, "source.mp4_sheet.jpg"), img, cfg.JPEGQuality)
	if err != nil {
		log.Error("Sheet write failed: %v", err)
		return false
	}
	log.Success("Sheet composition works (%dx%d, %s)", cfg.SheetWidth, cfg.SheetHeight, display.FormatBytes(size))
	return true
}

// CheckDeps is the pre-pipeline validation: it verifies that ffmpeg and
// ffprobe are on PATH and that the configured font loads. Returns a
// sentinel error (possibly wrapped) on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	face, err := sheet.LoadFace(cfg.FontPath, cfg.FontSize)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFontUnusable, err)
	}
	return face.Close()
}

// --- internal helpers ---

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
