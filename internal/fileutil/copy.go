package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// CopyFileVerified streams src to dst with SHA256 + size integrity
// verification and returns the number of bytes written. dst is created with
// mode (subject to umask) and removed on any failure.
func CopyFileVerified(src, dst string, mode fs.FileMode) (int64, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return 0, err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return written, nil
}
