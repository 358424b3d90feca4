package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dendrocli/internal/dataprocessing"
	apperrors "dendrocli/internal/errors"
)

// FileValidator checks input and output locations before any parsing starts
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

// ValidateInputDirectory validates that dir exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		v.logger.Error("Input directory is not accessible",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewFileReadError(dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apperrors.NewFileReadError(dir, fmt.Errorf("%s is not a directory", dir))
	}
	return nil
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

// ValidateFile checks if a specific file exists, is a regular file and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		v.logger.Error("File is not accessible",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewFileReadError(path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewFileReadError(path, fmt.Errorf("%s is a directory, not a file", path))
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewFileReadError(path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateSeriesFile checks the extension first, so an unsupported file is
// rejected without being opened, then validates the file itself
func (v *FileValidator) ValidateSeriesFile(path string) error {
	format, err := dataprocessing.DetectFormat(path)
	if err != nil {
		v.logger.Error("Unsupported series file",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return err
	}

	if err := v.ValidateFile(path); err != nil {
		return err
	}

	v.logger.Debug("Series file validated",
		slog.String("file", path),
		slog.String("format", string(format)))
	return nil
}
