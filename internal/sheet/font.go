package sheet

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontDPI makes a point equal a pixel, so Size is the pixel height.
const fontDPI = 72

// LoadFace parses the font at path and returns a face of the given pixel
// size. An empty path selects the embedded Go Regular font, so the tool
// works without any system fonts installed.
func LoadFace(path string, size float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		if path == "" {
			return nil, fmt.Errorf("parse embedded font: %w", err)
		}
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face at %.0fpx: %w", size, err)
	}
	return face, nil
}
