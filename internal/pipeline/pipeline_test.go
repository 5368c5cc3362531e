package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/backmassage/contactsheet/internal/config"
	"github.com/backmassage/contactsheet/internal/logging"
	"github.com/backmassage/contactsheet/internal/naming"
	"github.com/backmassage/contactsheet/internal/planner"
)

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "loop.hapq")
	touch(t, dir, "clip.mp4")
	touch(t, dir, "music.mp3")
	touch(t, dir, "readme.txt")
	touch(t, dir, "old.avi")
	touch(t, dir, "intro.hap")
	touch(t, dir, "vj.dxv")
	touch(t, dir, "edit.mov")
	touch(t, dir, "movie.mkv")

	files, err := Discover(dir, config.DefaultConfig().Extensions)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{"clip.mp4", "edit.mov", "intro.hap", "loop.hapq", "old.avi", "vj.dxv"}
	got := basenames(files)
	if !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "CLIP.MP4")
	touch(t, dir, "Edit.Mov")

	files, err := Discover(dir, []string{".mp4", ".mov"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2 (case-insensitive ext matching)", len(files))
	}
}

func TestDiscover_NotRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "top.mp4")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "nested"), "deep.mp4")
	// A directory that merely looks like a video.
	if err := os.MkdirAll(filepath.Join(dir, "folder.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := Discover(dir, []string{".mp4"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := basenames(files); !sliceEqual(got, []string{"top.mp4"}) {
		t.Errorf("got %v, want only top.mp4", got)
	}
}

func TestDiscover_Sorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.mp4", "a.mp4", "b.mp4"} {
		touch(t, dir, name)
	}
	files, err := Discover(dir, []string{".mp4"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := basenames(files); !sliceEqual(got, []string{"a.mp4", "b.mp4", "c.mp4"}) {
		t.Errorf("got %v, want sorted", got)
	}
}

func TestDiscover_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.mp4")
	if err := os.WriteFile(target, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(dir, "link.mp4")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling.mp4")); err != nil {
		t.Fatal(err)
	}

	files, err := Discover(dir, []string{".mp4"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := basenames(files); !sliceEqual(got, []string{"link.mp4"}) {
		t.Errorf("got %v, want only the live link", got)
	}
}

func TestDiscover_EmptyAndMissingDir(t *testing.T) {
	files, err := Discover(t.TempDir(), []string{".mp4"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}

	if _, err := Discover(filepath.Join(t.TempDir(), "missing"), []string{".mp4"}); err == nil {
		t.Error("expected error for missing directory")
	}
}

// --- RunStats tests ---

func TestRunStats_Interrupted(t *testing.T) {
	cases := []struct {
		s    RunStats
		want bool
	}{
		{RunStats{Total: 3, Generated: 2, Failed: 1}, false},
		{RunStats{Total: 3, Generated: 1}, true},
		{RunStats{}, false},
	}
	for _, tc := range cases {
		if got := tc.s.Interrupted(); got != tc.want {
			t.Errorf("%+v.Interrupted() = %v, want %v", tc.s, got, tc.want)
		}
	}
}

// --- Fake-tool pipeline tests ---

// fakeTools puts shell-script ffprobe and ffmpeg stand-ins at the front of
// PATH. The ffmpeg fake sees $ss (seek seconds) and $out (the .jpg output)
// before body runs. $FIXTURE_JPEG names a small decodable JPEG.
func fakeTools(t *testing.T, probeOutput, ffmpegBody string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	dir := t.TempDir()

	ffprobe := "#!/bin/sh\nprintf '" + probeOutput + "'\n"
	ffmpeg := "#!/bin/sh\n" +
		"prev=\n" +
		"for a in \"$@\"; do\n" +
		"  [ \"$prev\" = \"-ss\" ] && ss=\"$a\"\n" +
		"  case \"$a\" in *.jpg) out=\"$a\";; esac\n" +
		"  prev=\"$a\"\n" +
		"done\n" +
		ffmpegBody
	for name, script := range map[string]string{"ffprobe": ffprobe, "ffmpeg": ffmpeg} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("FIXTURE_JPEG", writeFixtureJPEG(t))
}

func writeFixtureJPEG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 36))
	for y := 0; y < 36; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{G: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "fixture.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	return path
}

func testSetup(t *testing.T) (*config.Config, *logging.Logger) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	cfg.ColorMode = config.ColorNever
	cfg.ExtractTimeout = 2 * time.Second

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return &cfg, log
}

func TestExtractThumbnails_SkipsFailures(t *testing.T) {
	// Frames at 5s and 10s fail: one with no output, one by hanging.
	fakeTools(t, "", `case "$ss" in
  5) exit 0 ;;
  10) exec sleep 5 ;;
esac
cp "$FIXTURE_JPEG" "$out"
`)
	cfg, log := testSetup(t)
	cfg.ExtractTimeout = 300 * time.Millisecond
	dir := t.TempDir()

	plan := planner.PlanThumbnails(20, 8) // 0 2 5 7 10 12 15 17
	thumbs, err := ExtractThumbnails(context.Background(), cfg, log, "clip.mp4", dir, plan)
	if err != nil {
		t.Fatalf("ExtractThumbnails: %v", err)
	}

	want := []string{
		naming.ThumbPath(dir, 0), naming.ThumbPath(dir, 1), naming.ThumbPath(dir, 3),
		naming.ThumbPath(dir, 5), naming.ThumbPath(dir, 6), naming.ThumbPath(dir, 7),
	}
	if !sliceEqual(thumbs, want) {
		t.Errorf("got %v, want %v", basenames(thumbs), basenames(want))
	}
}

func TestExtractThumbnails_VerboseLogsTimingAndCommand(t *testing.T) {
	fakeTools(t, "", `[ "$ss" = 5 ] && exit 1
cp "$FIXTURE_JPEG" "$out"
`)
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Verbose = true
	cfg.LogFile = filepath.Join(t.TempDir(), "run.log")
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	plan := planner.PlanThumbnails(10, 2) // 0 5
	if _, err := ExtractThumbnails(context.Background(), &cfg, log, "clip.mp4", t.TempDir(), plan); err != nil {
		t.Fatalf("ExtractThumbnails: %v", err)
	}
	log.Close()

	b, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	got := string(b)
	for _, want := range []string{"Thumbnail 1 at 0s in ", "Thumbnail 2 failed at 5s", "Command: ffmpeg ", "-ss 5 -i clip.mp4"} {
		if !strings.Contains(got, want) {
			t.Errorf("log missing %q:\n%s", want, got)
		}
	}
}

func TestExtractThumbnails_Canceled(t *testing.T) {
	fakeTools(t, "", `cp "$FIXTURE_JPEG" "$out"`+"\n")
	cfg, log := testSetup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExtractThumbnails(ctx, cfg, log, "clip.mp4", t.TempDir(), planner.PlanThumbnails(60, 8))
	if err == nil {
		t.Fatal("expected the context error")
	}
}

func TestRun_GeneratesSheets(t *testing.T) {
	fakeTools(t, `width=640\nheight=360\nduration=20.0\n`, `[ "$ss" = 10 ] && exit 0
cp "$FIXTURE_JPEG" "$out"
`)
	cfg, log := testSetup(t)
	touch(t, cfg.InputDir, "a.mp4")
	touch(t, cfg.InputDir, "b.MOV")
	touch(t, cfg.InputDir, "notes.txt")

	stats := Run(context.Background(), cfg, log)

	if stats.Total != 2 || stats.Generated != 2 || stats.Failed != 0 {
		t.Fatalf("stats = %+v, want 2 generated of 2", stats)
	}
	if stats.MissingThumbs != 2 {
		t.Errorf("MissingThumbs = %d, want 2 (one per video)", stats.MissingThumbs)
	}

	var total int64
	for _, name := range []string{"a.mp4", "b.MOV"} {
		path := naming.SheetPath(cfg.OutputDir, name)
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("sheet missing: %v", err)
		}
		ic, err := jpeg.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if ic.Width != 2560 || ic.Height != 1440 {
			t.Errorf("%s is %dx%d", path, ic.Width, ic.Height)
		}
		fi, _ := os.Stat(path)
		total += fi.Size()
	}
	if stats.OutputBytes != total {
		t.Errorf("OutputBytes = %d, files total %d", stats.OutputBytes, total)
	}

	if _, err := os.Stat(naming.TempRoot(cfg.OutputDir)); !os.IsNotExist(err) {
		t.Errorf("temp root should be removed, stat err = %v", err)
	}
}

func TestRun_ProbeFailureUsesDefaults(t *testing.T) {
	fakeTools(t, "", `cp "$FIXTURE_JPEG" "$out"`+"\n")
	// Replace ffprobe with one that fails outright.
	bin := filepath.Dir(mustLookPath(t, "ffprobe"))
	if err := os.WriteFile(filepath.Join(bin, "ffprobe"), []byte("#!/bin/sh\necho 'moov atom not found' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, log := testSetup(t)
	touch(t, cfg.InputDir, "broken.mp4")

	stats := Run(context.Background(), cfg, log)
	if stats.Generated != 1 || stats.Failed != 0 {
		t.Fatalf("stats = %+v, want the sheet generated with defaults", stats)
	}
	if _, err := os.Stat(naming.SheetPath(cfg.OutputDir, "broken.mp4")); err != nil {
		t.Errorf("sheet missing: %v", err)
	}
}

func TestRun_KeepsForeignTempContent(t *testing.T) {
	fakeTools(t, `duration=3.0\n`, `cp "$FIXTURE_JPEG" "$out"`+"\n")
	cfg, log := testSetup(t)
	touch(t, cfg.InputDir, "a.mp4")
	root := naming.TempRoot(cfg.OutputDir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, root, "keep.txt")

	Run(context.Background(), cfg, log)

	if _, err := os.Stat(filepath.Join(root, "keep.txt")); err != nil {
		t.Errorf("foreign file removed: %v", err)
	}
	if _, err := os.Stat(naming.TempDir(cfg.OutputDir, "a.mp4")); !os.IsNotExist(err) {
		t.Errorf("per-video temp dir left behind: %v", err)
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	fakeTools(t, `width=1920\nheight=1080\nduration=90\n`, "exit 1\n")
	cfg, log := testSetup(t)
	cfg.DryRun = true
	touch(t, cfg.InputDir, "a.mp4")
	touch(t, cfg.InputDir, "b.avi")

	stats := Run(context.Background(), cfg, log)
	if stats.Total != 2 || stats.Generated != 2 {
		t.Errorf("stats = %+v, want 2 planned", stats)
	}
	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d entries to the output dir", len(entries))
	}
}

func TestRun_CanceledBeforeStart(t *testing.T) {
	fakeTools(t, `duration=60\n`, `cp "$FIXTURE_JPEG" "$out"`+"\n")
	cfg, log := testSetup(t)
	touch(t, cfg.InputDir, "a.mp4")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := Run(ctx, cfg, log)
	if stats.Current != 0 || stats.Generated != 0 {
		t.Errorf("stats = %+v, want nothing processed", stats)
	}
	if !stats.Interrupted() {
		t.Error("Interrupted() = false after cancellation")
	}
}

func TestRun_NoVideos(t *testing.T) {
	cfg, log := testSetup(t)
	touch(t, cfg.InputDir, "readme.txt")

	stats := Run(context.Background(), cfg, log)
	if stats.Total != 0 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

// --- Real ffmpeg integration test ---

func TestRunPipeline_RealFfmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}

	cfg, log := testSetup(t)
	cfg.ExtractTimeout = 10 * time.Second

	// A 12-second landscape clip and a 3-second portrait clip.
	clips := []struct{ name, size, dur string }{
		{"landscape.mp4", "640x360", "12"},
		{"portrait.mov", "360x640", "3"},
	}
	for _, c := range clips {
		gen := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
			"-f", "lavfi", "-i", "testsrc=duration="+c.dur+":size="+c.size+":rate=24",
			"-pix_fmt", "yuv420p", "-y", filepath.Join(cfg.InputDir, c.name),
		)
		gen.Stderr = os.Stderr
		if err := gen.Run(); err != nil {
			t.Fatalf("generate %s: %v", c.name, err)
		}
	}

	stats := Run(context.Background(), cfg, log)

	t.Logf("Total=%d Generated=%d Failed=%d Missing=%d",
		stats.Total, stats.Generated, stats.Failed, stats.MissingThumbs)

	if stats.Total != 2 || stats.Generated != 2 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 2 generated", stats)
	}
	for _, c := range clips {
		if _, err := os.Stat(naming.SheetPath(cfg.OutputDir, c.name)); err != nil {
			t.Errorf("sheet for %s: %v", c.name, err)
		}
	}
}

// --- Helpers ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func mustLookPath(t *testing.T, name string) string {
	t.Helper()
	p, err := exec.LookPath(name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
