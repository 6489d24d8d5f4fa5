package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteMedia creates path, and any missing parent directories, holding content.
func WriteMedia(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteSizedMedia creates a media file of exactly size bytes.
func WriteSizedMedia(t testing.TB, path string, size int) {
	t.Helper()
	WriteMedia(t, path, string(bytes.Repeat([]byte{'m'}, size)))
}

// ReadMedia returns the content of path.
func ReadMedia(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
