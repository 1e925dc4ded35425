package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ytstats/internal/validation"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery locates statistics source files
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindSourceFiles finds .csv and .xlsx files in dir, oldest first. Office
// lock files ("~$...") are skipped.
func (d *Discovery) FindSourceFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

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
		if validation.IsTemporaryFile(name) {
			continue
		}
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".csv") && !strings.HasSuffix(lower, ".xlsx") {
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

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// ResolveSource turns a configured source path into a file path. A file path
// is returned unchanged; for a directory the most recently modified source
// file inside it is chosen.
func (d *Discovery) ResolveSource(path string) (string, error) {
	fullPath := d.resolve(path)

	info, err := os.Stat(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat source %s: %w", fullPath, err)
	}
	if !info.IsDir() {
		return fullPath, nil
	}

	files, err := d.FindSourceFiles(fullPath)
	if err != nil {
		return "", err
	}

	latest, ok := GetLatestFile(files)
	if !ok {
		return "", fmt.Errorf("no .csv or .xlsx source found in %s", fullPath)
	}
	return latest.Path, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}
