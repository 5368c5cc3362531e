package sheet

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register the JPEG decoder for thumbnails
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/backmassage/contactsheet/internal/config"
	"github.com/backmassage/contactsheet/internal/display"
	"github.com/backmassage/contactsheet/internal/planner"
	"github.com/backmassage/contactsheet/internal/probe"
)

// HeaderInfo is what the text band shows about a video.
type HeaderInfo struct {
	Name     string  // basename, extension included
	Duration float64 // seconds; 0 when unknown
	Width    int     // 0 when unknown
	Height   int     // 0 when unknown
}

// HeaderFromMetadata fills a HeaderInfo from probe output.
func HeaderFromMetadata(md *probe.Metadata) HeaderInfo {
	return HeaderInfo{
		Name:     filepath.Base(md.Path),
		Duration: md.Duration,
		Width:    md.Width,
		Height:   md.Height,
	}
}

// HeaderLines returns the header text, one entry per drawn line.
func HeaderLines(info HeaderInfo) []string {
	return []string{
		"Name: " + info.Name,
		"Duration: " + display.FormatDuration(info.Duration),
		"Resolution: " + display.FormatResolution(info.Width, info.Height),
	}
}

// Composer draws sheets at a fixed canvas size with one loaded font face.
// It is not safe for concurrent use; the face keeps glyph caches.
type Composer struct {
	width, height int
	margin        int // left and top offset of the header
	lineStep      int // baseline-to-baseline distance between header lines
	face          font.Face
}

// NewComposer loads the configured font and returns a Composer for the
// configured canvas. Callers must Close it.
func NewComposer(cfg *config.Config) (*Composer, error) {
	face, err := LoadFace(cfg.FontPath, cfg.FontSize)
	if err != nil {
		return nil, err
	}
	return &Composer{
		width:    cfg.SheetWidth,
		height:   cfg.SheetHeight,
		margin:   cfg.TextMargin,
		lineStep: int(cfg.FontSize) + cfg.LineGap,
		face:     face,
	}, nil
}

// Close releases the font face.
func (c *Composer) Close() error {
	return c.face.Close()
}

// Compose draws one sheet. thumbs[i] goes into layout cell i; entries past
// the last cell are ignored, and cells without an entry stay black. A thumb
// that cannot be opened or decoded leaves its cell black too. The second
// return value counts the cells actually filled.
func (c *Composer) Compose(info HeaderInfo, thumbs []string, layout planner.Layout) (*image.RGBA, int) {
	canvas := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	c.drawHeader(canvas, HeaderLines(info))

	pasted := 0
	for i, path := range thumbs {
		if i >= len(layout.Cells) {
			break
		}
		if err := pasteThumb(canvas, path, layout.CellRect(i)); err != nil {
			continue
		}
		pasted++
	}
	return canvas, pasted
}

// drawHeader renders lines in white. Line tops start at the margin and step
// by font size plus the line gap; the drawer wants a baseline, so the face
// ascent is added to each top.
func (c *Composer) drawHeader(dst draw.Image, lines []string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: c.face,
	}
	ascent := c.face.Metrics().Ascent.Ceil()
	y := c.margin
	for _, line := range lines {
		d.Dot = fixed.P(c.margin, y+ascent)
		d.DrawString(line)
		y += c.lineStep
	}
}

// pasteThumb decodes the image at path and stretches it into r.
func pasteThumb(dst draw.Image, path string, r image.Rectangle) error {
	img, err := decodeFile(path)
	if err != nil {
		return err
	}
	scaled := resize.Resize(uint(r.Dx()), uint(r.Dy()), img, resize.Lanczos3)
	draw.Draw(dst, r, scaled, scaled.Bounds().Min, draw.Src)
	return nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
