// Package files locates monthly trip data exports on disk.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance rooted at basePath.
// Relative directories passed to the finders resolve against it.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindCSVFiles finds all CSV files in the specified directory,
// sorted by modification time (oldest first)
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// FindTripDataFiles finds monthly trip exports (*tripdata*.csv) in the
// specified directory, falling back to all CSV files when none match the
// naming convention. Sorted oldest first.
func (d *Discovery) FindTripDataFiles(dir string) ([]FileInfo, error) {
	files, err := d.FindCSVFiles(dir)
	if err != nil {
		return nil, err
	}

	var tripFiles []FileInfo
	for _, file := range files {
		if strings.Contains(strings.ToLower(file.Name), "tripdata") {
			tripFiles = append(tripFiles, file)
		}
	}

	if len(tripFiles) == 0 {
		return files, nil
	}
	return tripFiles, nil
}

// Newest returns the most recently modified file of the slice, or nil for
// an empty slice. Finders return files oldest first, so this is the last one.
func Newest(files []FileInfo) *FileInfo {
	if len(files) == 0 {
		return nil
	}
	return &files[len(files)-1]
}
