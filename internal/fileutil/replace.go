package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mediasweep/internal/services"
)

// BackupSuffix is appended to a library file while it is being replaced.
const BackupSuffix = ".bak"

// ReplaceError reports a failed copy during ReplaceWithBackup. The backup of
// the original file is left at Backup for manual recovery.
type ReplaceError struct {
	Source      string
	Destination string
	Backup      string
	Err         error
}

func (e *ReplaceError) Error() string {
	return fmt.Sprintf("copy %s to %s failed (original kept at %s): %v", e.Source, e.Destination, e.Backup, e.Err)
}

func (e *ReplaceError) Unwrap() []error { return []error{services.ErrIO, e.Err} }

// BackupPath returns where ReplaceWithBackup parks target during the copy.
func BackupPath(target string) string {
	return target + BackupSuffix
}

// ReplaceWithBackup swaps target for a copy of source written at destination.
// The target is first renamed to its backup path (never overwriting an older
// backup), the source is copied into a temporary file beside destination and
// renamed into place, and the backup is deleted last. It returns the number of
// bytes copied.
func ReplaceWithBackup(target, source, destination string) (int64, error) {
	targetInfo, err := os.Lstat(target)
	if err != nil {
		return 0, services.Wrap(services.ErrIO, "replace", "stat target", target, err)
	}
	backup := BackupPath(target)
	if err := renameNoReplace(target, backup); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, services.Wrap(services.ErrIO, "replace", "create backup", fmt.Sprintf("%s already exists; recover or remove it first", backup), err)
		}
		return 0, services.Wrap(services.ErrIO, "replace", "create backup", target, err)
	}

	size, err := CopyAtomic(source, destination, targetInfo.Mode().Perm())
	if err != nil {
		return 0, &ReplaceError{Source: source, Destination: destination, Backup: backup, Err: err}
	}

	if err := os.Remove(backup); err != nil {
		return size, services.Wrap(services.ErrIO, "replace", "delete backup", backup, err)
	}
	return size, nil
}

// CopyAtomic copies source into a temporary sibling of destination with
// CopyFileVerified and renames it into place, so destination is either
// untouched or complete.
func CopyAtomic(source, destination string, perm fs.FileMode) (int64, error) {
	dir, name := filepath.Split(destination)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".partial-*")
	if err != nil {
		return 0, fmt.Errorf("create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	_ = tmp.Close()

	size, err := CopyFileVerified(source, tmpName, perm)
	if err != nil {
		_ = os.Remove(tmpName)
		return 0, err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, destination); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("rename into place: %w", err)
	}
	return size, nil
}
