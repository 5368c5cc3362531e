package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	sheetSuffix = "_sheet.jpg"
	tempDirName = "temp"
)

// SheetPath builds the contact sheet path for a video. The full basename,
// extension included, is kept so clip.mp4 and clip.mov get distinct sheets.
//
//	<outputDir>/<basename>_sheet.jpg
func SheetPath(outputDir, videoPath string) string {
	return filepath.Join(outputDir, filepath.Base(videoPath)+sheetSuffix)
}

// TempRoot is the directory holding every per-video scratch directory.
//
//	<outputDir>/temp
func TempRoot(outputDir string) string {
	return filepath.Join(outputDir, tempDirName)
}

// TempDir is the scratch directory for one video's thumbnails.
//
//	<outputDir>/temp/<stem>
func TempDir(outputDir, videoPath string) string {
	return filepath.Join(TempRoot(outputDir), Stem(videoPath))
}

// ThumbPath names the thumbnail for zero-based index inside dir. File
// numbering is one-based: thumb_1.jpg through thumb_N.jpg.
func ThumbPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("thumb_%d.jpg", index+1))
}

// Stem returns the basename of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
