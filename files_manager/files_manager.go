package files_manager

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// GetImagePaths lists the image files directly inside dir, sorted by name.
func GetImagePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	imageFiles := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "._") {
			continue
		}
		if !IsImagePath(entry.Name()) {
			continue
		}
		imageFiles = append(imageFiles, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(imageFiles)
	return imageFiles, nil
}

// ExpandInputs replaces every directory in paths by the images it holds.
// Anything else, including paths that do not exist, is kept as given so the
// failure is reported for that file when it is read.
func ExpandInputs(paths []string) ([]string, error) {
	expanded := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			expanded = append(expanded, p)
			continue
		}
		files, err := GetImagePaths(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		expanded = append(expanded, files...)
	}
	return expanded, nil
}

// WriteFileAtomic writes through a .tmp sibling and renames it over path once
// the content is on disk and non-empty.
func WriteFileAtomic(path string, write func(f *os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, strings.TrimSuffix(base, filepath.Ext(base))+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
