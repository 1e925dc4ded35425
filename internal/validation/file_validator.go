package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Source formats accepted by the loader
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// FileValidator provides the file checks shared by the server and the CLI
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateSourceFile checks that path is a readable .csv or .xlsx statistics
// file and returns its lower-cased extension.
func (v *FileValidator) ValidateSourceFile(path string) (string, error) {
	if err := v.ValidateFile(path); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ExtCSV && ext != ExtXLSX {
		v.logger.Error("File is not a supported source",
			slog.String("file", path),
			slog.String("extension", ext))
		return "", fmt.Errorf("file %s is not a CSV or XLSX file (extension: %s)", path, ext)
	}

	if IsTemporaryFile(path) {
		v.logger.Warn("Skipping temporary office file",
			slog.String("file", path))
		return "", fmt.Errorf("file %s is a temporary office file", path)
	}

	return ext, nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// IsTemporaryFile reports lock files left behind by office suites ("~$name.xlsx")
func IsTemporaryFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "~$")
}
