package fileutil

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// AtomicFile buffers writes into a temporary file beside the destination and
// only replaces the destination on Commit. Abort discards everything, so a
// failed run never leaves a partial file behind.
type AtomicFile struct {
	dst    string
	tmp    *os.File
	writer *bufio.Writer
	done   bool
}

// CreateAtomic opens a temporary sibling of dst for writing.
func CreateAtomic(dst string) (*AtomicFile, error) {
	dir, name := filepath.Split(dst)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temporary file for %s: %w", dst, err)
	}
	return &AtomicFile{dst: dst, tmp: tmp, writer: bufio.NewWriter(tmp)}, nil
}

func (f *AtomicFile) Write(p []byte) (int, error) {
	return f.writer.Write(p)
}

// Name returns the final destination path.
func (f *AtomicFile) Name() string {
	return f.dst
}

// Commit flushes, syncs and renames the temporary file over the destination.
func (f *AtomicFile) Commit() error {
	if f.done {
		return fmt.Errorf("commit %s: already finished", f.dst)
	}
	f.done = true
	tmpName := f.tmp.Name()
	if err := f.writer.Flush(); err != nil {
		f.discard()
		return fmt.Errorf("flush %s: %w", tmpName, err)
	}
	if err := f.tmp.Chmod(0o644); err != nil {
		f.discard()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := f.tmp.Sync(); err != nil {
		f.discard()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.dst); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("publish %s: %w", f.dst, err)
	}
	return nil
}

// Abort removes the temporary file. It is a no-op after Commit.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.discard()
}

func (f *AtomicFile) discard() {
	_ = f.tmp.Close()
	_ = os.Remove(f.tmp.Name())
}
