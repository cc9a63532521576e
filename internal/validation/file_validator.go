package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apierrors "volcanotrends/internal/errors"
)

// FileValidator checks the input and output paths given to the dataset commands
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateInputFile checks that path is an existing, non-empty regular file.
// When extensions are given the file name must end in one of them.
func (v *FileValidator) ValidateInputFile(path string, extensions ...string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return apierrors.NewNotFoundError("input file").WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apierrors.NewStorageError("stat input file", err).WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return apierrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}
	if info.Size() == 0 {
		v.logger.Error("Input file is empty",
			slog.String("file", path))
		return apierrors.NewAppValidationError(fmt.Sprintf("%s is empty", path))
	}

	if len(extensions) > 0 && !hasExtension(path, extensions) {
		v.logger.Error("Unexpected input file type",
			slog.String("file", path),
			slog.String("expected", strings.Join(extensions, ", ")))
		return apierrors.NewAppValidationError(
			fmt.Sprintf("%s: expected one of %s", path, strings.Join(extensions, ", ")))
	}

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputFile ensures the parent directory of path exists and is
// writable, creating it if needed. An existing directory at path is rejected.
func (v *FileValidator) ValidateOutputFile(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		v.logger.Error("Output path is a directory",
			slog.String("path", path))
		return apierrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apierrors.NewStorageError("create output directory", err).WithContext("path", dir)
	}

	// Verify it's writable by creating a probe file
	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apierrors.NewStorageError("output directory is not writable", err).WithContext("path", dir)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output path validated",
		slog.String("file", path))
	return nil
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
