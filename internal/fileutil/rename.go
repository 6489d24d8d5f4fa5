package fileutil

import (
	"errors"
	"io/fs"
	"os"
)

// renameCheckFirst is the portable fallback for renameNoReplace. It is racy
// against concurrent writers, which a single-run tool does not have.
func renameCheckFirst(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: os.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}
