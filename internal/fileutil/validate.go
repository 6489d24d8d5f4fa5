package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mediasweep/internal/services"
)

// ValidateDirectory fails unless path exists and is a directory.
func ValidateDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("%s is not a valid directory path", path), nil)
	}
	return nil
}

// ValidateInputFile fails unless path exists and is a regular file.
func ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("%s does not exist", path), nil)
		}
		return services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("stat %s", path), err)
	}
	if !info.Mode().IsRegular() {
		return services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("%s is not a file", path), nil)
	}
	return nil
}

// ValidateOutputFile accepts an existing regular file or a new path whose
// parent is an existing directory. Writability is not checked here.
func ValidateOutputFile(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("%s is not a file", path), nil)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		parent, perr := os.Stat(filepath.Dir(path))
		if perr != nil || !parent.IsDir() {
			return services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("%s is not a valid file path", path), nil)
		}
		return nil
	default:
		return services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("stat %s", path), err)
	}
}
