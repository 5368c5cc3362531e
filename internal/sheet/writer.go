package sheet

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
)

// WriteJPEG encodes img at quality into path and returns the size written.
// The image goes to a temporary file in the same directory first and is
// renamed into place, so an interrupted run never leaves a truncated sheet.
func WriteJPEG(path string, img image.Image, quality int) (int64, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sheet-*.jpg")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
		return 0, fmt.Errorf("encode jpeg: %w", err)
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("write %s: %w", tmpName, err)
	}
	fi, err := tmp.Stat()
	if err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("rename into place: %w", err)
	}
	ok = true
	return fi.Size(), nil
}
