// Package importer replaces library files with re-encoded versions.
//
// The input directory holds the new files at its top level. Each is matched
// to the library file with the same base name (the leaf name without its
// final extension), wherever that file sits in the library tree. A match is
// replaced through a backup, so a failed copy always leaves the original
// recoverable beside the destination. Input files that match nothing are
// reported together once the library walk is over.
package importer
