// Package walk traverses a directory tree depth first and hands every
// non-directory entry to a visitor.
//
// Entries are visited in lexical order within each directory, so repeated
// walks over an unchanged tree visit files in the same order. A visitor halts
// the whole traversal by returning ErrStop. Directory read failures abort the
// walk: silently skipping a subtree would produce an incomplete inventory.
package walk

import (
	"errors"
	"io/fs"
	"path/filepath"

	"mediasweep/internal/services"
)

// ErrStop is returned by a VisitFunc to end the traversal early. Files then
// returns nil.
var ErrStop = errors.New("walk: stop")

// VisitFunc is called for every entry that is not a directory. Symlinks are
// passed as-is and never followed.
type VisitFunc func(path string, entry fs.DirEntry) error

// Files walks root in pre-order, recursing into each directory before moving
// on to its siblings.
func Files(root string, visit VisitFunc) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return services.Wrap(services.ErrIO, "walk", "read directory", path, err)
		}
		if entry.IsDir() {
			return nil
		}
		if err := visit(path, entry); err != nil {
			if errors.Is(err, ErrStop) {
				return filepath.SkipAll
			}
			return err
		}
		return nil
	})
	return err
}
