package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/contactsheet/internal/config"
	"github.com/backmassage/contactsheet/internal/display"
	"github.com/backmassage/contactsheet/internal/logging"
	"github.com/backmassage/contactsheet/internal/naming"
	"github.com/backmassage/contactsheet/internal/planner"
	"github.com/backmassage/contactsheet/internal/probe"
	"github.com/backmassage/contactsheet/internal/sheet"
)

// Run is the top-level batch entry point. It discovers videos, processes
// each one sequentially, and returns aggregate stats. Cancellation of ctx
// kills the ffmpeg call in flight and stops the batch before the next video.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	files, err := Discover(cfg.InputDir, cfg.Extensions)
	if err != nil {
		log.Error("Video discovery failed: %v", err)
		return stats
	}
	stats.Total = len(files)
	if stats.Total == 0 {
		log.Warn("No video files found in %s", cfg.InputDir)
		return stats
	}

	var comp *sheet.Composer
	if !cfg.DryRun {
		comp, err = sheet.NewComposer(cfg)
		if err != nil {
			log.Error("Cannot load font: %v", err)
			stats.Failed = stats.Total
			return stats
		}
		defer comp.Close()
	}

	logBatchHeader(cfg, log, &stats)
	geom := planner.GeometryFromConfig(cfg)

	for i, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		stats.Current = i + 1
		processVideo(ctx, cfg, log, comp, geom, path, &stats)
	}

	removeTempRoot(cfg, log)
	logSummary(cfg, log, &stats)
	return stats
}

// processVideo handles one video: probe → plan → extract → compose → write → clean up.
func processVideo(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	comp *sheet.Composer,
	geom planner.Geometry,
	path string,
	stats *RunStats,
) {
	basename := filepath.Base(path)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)
	defer log.Blank()

	// --- Probe ---
	md, err := probe.Probe(ctx, path)
	if ctx.Err() != nil {
		log.Warn("Interrupted while probing")
		return
	}
	if err != nil {
		log.Warn("Metadata incomplete, using defaults: %v", err)
	}
	log.Debug("  Duration: %s | Resolution: %s", display.FormatDuration(md.Duration), md.Resolution())

	// --- Plan ---
	plan := planner.PlanThumbnails(md.Duration, cfg.Thumbnails)
	if plan.Reduced {
		log.Info("  Short video (%s): extracting %d of %d thumbnails",
			display.FormatDuration(md.Duration), plan.Count, plan.Requested)
	}
	layout := planner.ComputeLayout(geom, md.AspectRatio())
	sheetPath := naming.SheetPath(cfg.OutputDir, path)
	log.Debug("  Cell: %dx%d", layout.CellWidth, layout.CellHeight)

	// --- Dry-run ---
	if cfg.DryRun {
		log.Info("  Timestamps: %v", plan.Timestamps)
		log.Success("[DRY] Would write %s", sheetPath)
		stats.Generated++
		return
	}

	// --- Extract ---
	tempDir := naming.TempDir(cfg.OutputDir, path)
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		log.Error("Cannot create temp directory: %v", err)
		stats.Failed++
		return
	}

	start := time.Now()
	thumbs, err := ExtractThumbnails(ctx, cfg, log, path, tempDir, plan)
	padded := planner.PadThumbnails(thumbs, plan.Requested)
	defer cleanupThumbs(log, tempDir, padded)

	if err != nil {
		log.Warn("Interrupted during extraction")
		return
	}
	stats.MissingThumbs += plan.Count - len(thumbs)
	if len(thumbs) == 0 {
		log.Warn("  No thumbnails extracted, the grid will be empty")
	} else if len(padded) > len(thumbs) {
		log.Debug("  Padded %d missing cells with the last thumbnail", len(padded)-len(thumbs))
	}

	// --- Compose and write ---
	img, pasted := comp.Compose(sheet.HeaderFromMetadata(md), padded, layout)
	if pasted < len(padded) {
		log.Warn("  %d thumbnail(s) could not be decoded", len(padded)-pasted)
	}

	size, err := sheet.WriteJPEG(sheetPath, img, cfg.JPEGQuality)
	if err != nil {
		log.Error("Cannot write sheet: %v", err)
		stats.Failed++
		return
	}

	stats.Generated++
	stats.OutputBytes += size
	log.Success("Contact sheet saved: %s (%s, %d/%d thumbnails, %ds)",
		sheetPath, display.FormatBytes(size), len(thumbs), plan.Requested,
		int(time.Since(start).Seconds()))
}

// cleanupThumbs removes each distinct thumbnail once (padding repeats paths)
// and then the video's scratch directory, including any partial files left
// by timed-out grabs.
func cleanupThumbs(log *logging.Logger, dir string, thumbs []string) {
	seen := make(map[string]bool, len(thumbs))
	for _, p := range thumbs {
		if seen[p] {
			continue
		}
		seen[p] = true
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Debug("  Cannot remove %s: %v", p, err)
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		log.Warn("Cannot remove temp directory %s: %v", dir, err)
	}
}

// removeTempRoot deletes <output>/temp once the batch is done, but only when
// it is empty; anything else in there is not ours to remove.
func removeTempRoot(cfg *config.Config, log *logging.Logger) {
	if cfg.DryRun {
		return
	}
	root := naming.TempRoot(cfg.OutputDir)
	entries, err := os.ReadDir(root)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := os.Remove(root); err != nil {
		log.Debug("Cannot remove %s: %v", root, err)
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d videos in %s", stats.Total, cfg.InputDir)
	log.Info("Output: %s", cfg.OutputDir)
	log.Info("Sheet: %dx%d, %dx%d grid, %d thumbnails per video",
		cfg.SheetWidth, cfg.SheetHeight, cfg.Cols, cfg.Rows, cfg.Thumbnails)
	if cfg.FontPath != "" {
		log.Info("Font: %s", cfg.FontPath)
	}
	if cfg.DryRun {
		log.Info("Dry run: nothing will be written")
	}
	log.Blank()
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d generated, %d failed", stats.Generated, stats.Failed)
	log.Info("Summary report:")
	log.Info("  Total videos processed: %d of %d", stats.Current, stats.Total)
	if stats.Interrupted() {
		log.Warn("  Batch stopped early")
	}
	if stats.MissingThumbs > 0 {
		log.Warn("  Thumbnails skipped: %d", stats.MissingThumbs)
	}

	if cfg.DryRun {
		log.Info("  Total written: n/a (dry run)")
		return
	}
	log.Success("  Total written: %s", display.FormatBytes(stats.OutputBytes))
}
