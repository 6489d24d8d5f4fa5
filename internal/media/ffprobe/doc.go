// Package ffprobe turns ffprobe's compact stream output into typed records.
//
// This package has no mediasweep-specific dependencies beyond the shared error
// markers.
//
// Key types:
//   - Stream: one video/audio/subtitle track (codec kind, codec name, language)
//   - Runner: launches ffprobe for a media file
//   - Session: lazily yields the Streams of one probe run
//
// ParseLine is the grammar: `stream|key=value|...`, scanned left to right and
// returning as soon as the record holds every field its kind requires.
package ffprobe
