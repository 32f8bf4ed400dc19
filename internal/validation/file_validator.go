// Package validation provides pre-flight checks for the analysis commands:
// input files and output directories are validated before any stage runs.
package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ridelens/internal/errors"
)

// FileValidator provides common file validation for the commands
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputFile checks that the input path is a readable, non-empty CSV file
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("input file does not exist", slog.String("path", path))
		return errors.NewIOError("input file does not exist", err).WithContext("path", path)
	}
	if err != nil {
		return errors.NewIOError("failed to stat input file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return errors.NewValidationError("input path is a directory, expected a CSV file").WithContext("path", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		return errors.NewValidationError("input file must have a .csv extension").WithContext("path", path)
	}
	if info.Size() == 0 {
		return errors.NewValidationError("input file is empty").WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return errors.NewIOError("input file is not readable", err).WithContext("path", path)
	}
	file.Close()

	v.logger.Info("input file validated",
		slog.String("path", path),
		slog.Int64("size_bytes", info.Size()))

	return nil
}

// ValidateInputDirectory validates that the input directory exists and, when
// a glob pattern is given, reports how many files match. No matches is not
// an error; there is just nothing to analyze yet.
func (v *FileValidator) ValidateInputDirectory(dir string, requiredPattern string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("input directory does not exist", slog.String("directory", dir))
		return errors.NewIOError("input directory does not exist", err).WithContext("directory", dir)
	}
	if err != nil {
		return errors.NewIOError("failed to stat input directory", err).WithContext("directory", dir)
	}
	if !info.IsDir() {
		return errors.NewValidationError("input path is not a directory").WithContext("path", dir)
	}

	if requiredPattern != "" {
		pattern := filepath.Join(dir, requiredPattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return errors.NewValidationError("invalid file pattern").WithContext("pattern", requiredPattern)
		}

		if len(matches) == 0 {
			v.logger.Warn("no files matching pattern found",
				slog.String("directory", dir),
				slog.String("pattern", requiredPattern))
			return nil
		}

		v.logger.Info("input directory validated",
			slog.String("directory", dir),
			slog.Int("files_found", len(matches)),
			slog.String("pattern", requiredPattern))
	}

	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created, and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewIOError("failed to create output directory", err).WithContext("directory", dir)
	}

	// Probe writability with a throwaway file
	probe := filepath.Join(dir, ".write_probe")
	file, err := os.Create(probe)
	if err != nil {
		return errors.NewIOError("output directory is not writable", err).WithContext("directory", dir)
	}
	file.Close()
	os.Remove(probe)

	return nil
}
