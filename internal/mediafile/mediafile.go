// Package mediafile holds the file naming rules shared by search, import and
// export: which extensions count as media and how base names are derived.
package mediafile

import (
	"path/filepath"
	"strings"
)

const (
	extAVI = ".avi"
	extMP4 = ".mp4"
	extMKV = ".mkv"
)

// Extensions are matched case-sensitively; the library uses lowercase names.

// IsMedia reports whether path names a media container the tool handles.
func IsMedia(path string) bool {
	return IsLegacyContainer(path) || NeedsProbe(path)
}

// IsLegacyContainer reports whether path is an AVI file. AVI files always
// need transcoding, so they are never probed.
func IsLegacyContainer(path string) bool {
	return strings.HasSuffix(path, extAVI)
}

// NeedsProbe reports whether the verdict for path depends on its streams.
func NeedsProbe(path string) bool {
	return strings.HasSuffix(path, extMP4) || strings.HasSuffix(path, extMKV)
}

// BaseName returns the leaf name of path without its final extension. Names
// without a dot are returned whole.
func BaseName(path string) string {
	name := filepath.Base(path)
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[:idx]
	}
	return name
}
