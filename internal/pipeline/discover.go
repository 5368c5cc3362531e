package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Discover lists the videos directly inside inputDir whose extension is in
// exts (compared case-insensitively). Subdirectories are not descended
// into. Symlinks count when they point at a regular file. The result is in
// directory-name order, which os.ReadDir already sorts.
func Discover(inputDir string, exts []string) ([]string, error) {
	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[strings.ToLower(e)] = true
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !want[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		path := filepath.Join(inputDir, e.Name())
		if !isRegular(path, e) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

func isRegular(path string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink != 0 {
		fi, err := os.Stat(path)
		return err == nil && fi.Mode().IsRegular()
	}
	return e.Type().IsRegular()
}
