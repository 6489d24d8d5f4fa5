// Package search lists the media files of a library that need transcoding.
//
// AVI files are always listed. MP4 and MKV files are probed with ffprobe and
// listed when any stream falls outside the codec policy. The listing holds one
// path per line, joined onto the scanned root, in walk order, and is published
// atomically: a failed scan never leaves a partial listing behind.
package search
