package ffprobe

import (
	"fmt"
	"strings"

	"mediasweep/internal/services"
)

const (
	streamSection   = "stream"
	keyCodecType    = "codec_type"
	keyCodecName    = "codec_name"
	segmentSplitter = "|"
)

// ErrMalformedSegment reports a recognised key that arrived without a value.
var ErrMalformedSegment = fmt.Errorf("%w: malformed segment", services.ErrProtocol)

// ParseLine converts one line of `-print_format compact` output into a Stream.
// The boolean is false when the line is not a stream section, names an
// unsupported codec type, or ends before the record is filled.
func ParseLine(line string) (Stream, bool, error) {
	line = strings.TrimRight(line, "\r\n")
	segments := strings.Split(line, segmentSplitter)
	if len(segments) == 0 || segments[0] != streamSection {
		return Stream{}, false, nil
	}

	var stream Stream
	for _, segment := range segments[1:] {
		key, value, found := strings.Cut(segment, "=")
		if !found {
			if isRecognisedKey(segment) {
				return Stream{}, false, fmt.Errorf("%w: %q in %q", ErrMalformedSegment, segment, line)
			}
			continue
		}
		switch {
		case key == keyCodecType:
			codec, ok := ParseCodec(value)
			if !ok {
				return Stream{}, false, nil
			}
			stream.Codec = codec
		case key == keyCodecName:
			stream.SetCodecName(value)
		case isLanguageKey(key):
			stream.SetLanguage(value)
		}
		if stream.Filled() {
			return stream, true, nil
		}
	}
	return Stream{}, false, nil
}

// isLanguageKey accepts tag:language with either casing of the prefix and of
// the suffix, and nothing else.
func isLanguageKey(key string) bool {
	switch key {
	case "tag:language", "TAG:language", "tag:LANGUAGE", "TAG:LANGUAGE":
		return true
	default:
		return false
	}
}

func isRecognisedKey(key string) bool {
	return key == keyCodecType || key == keyCodecName || isLanguageKey(key)
}

