// Package policy decides whether probed streams satisfy the library's codec
// policy and, from that, whether a media file needs transcoding.
package policy

import (
	"fmt"
	"slices"

	"mediasweep/internal/config"
	"mediasweep/internal/media/ffprobe"
	"mediasweep/internal/services"
)

// ErrUnknownCodec marks a stream whose kind the classifier cannot judge. The
// parser filters codec types at ingestion, so this is an invariant violation.
var ErrUnknownCodec = fmt.Errorf("%w: unrecognized codec", services.ErrInvariant)

// Policy lists acceptable codec names per stream kind and acceptable subtitle
// languages. Values are matched exactly.
type Policy struct {
	VideoCodecs       []string
	AudioCodecs       []string
	SubtitleLanguages []string
}

// Default returns the library policy: h264 video, aac audio, French, English
// or undetermined subtitles.
func Default() Policy {
	return Policy{
		VideoCodecs:       []string{"h264"},
		AudioCodecs:       []string{"aac"},
		SubtitleLanguages: []string{"fra", "fre", "eng", "und"},
	}
}

// FromConfig builds the policy from the [policy] section.
func FromConfig(cfg *config.Config) Policy {
	if cfg == nil {
		return Default()
	}
	return Policy{
		VideoCodecs:       slices.Clone(cfg.Policy.VideoCodecs),
		AudioCodecs:       slices.Clone(cfg.Policy.AudioCodecs),
		SubtitleLanguages: slices.Clone(cfg.Policy.SubtitleLanguages),
	}
}

// Acceptable reports whether a filled stream satisfies the policy.
func (p Policy) Acceptable(stream ffprobe.Stream) (bool, error) {
	switch stream.Codec {
	case ffprobe.CodecVideo:
		return slices.Contains(p.VideoCodecs, stream.CodecName), nil
	case ffprobe.CodecAudio:
		return slices.Contains(p.AudioCodecs, stream.CodecName), nil
	case ffprobe.CodecSubtitle:
		return slices.Contains(p.SubtitleLanguages, stream.Language), nil
	default:
		return false, fmt.Errorf("%w: %v (codec name %q)", ErrUnknownCodec, stream.Codec, stream.CodecName)
	}
}

// Reason describes why a stream fails the policy.
func (p Policy) Reason(stream ffprobe.Stream) string {
	switch stream.Codec {
	case ffprobe.CodecSubtitle:
		return fmt.Sprintf("subtitle language %q not accepted", stream.Language)
	default:
		return fmt.Sprintf("%s codec %q not accepted", stream.Codec, stream.CodecName)
	}
}

// StreamSource is a lazy sequence of probed streams, satisfied by
// *ffprobe.Session.
type StreamSource interface {
	Next() bool
	Stream() ffprobe.Stream
	Err() error
}

// Verdict is the outcome of classifying one media file.
type Verdict struct {
	NeedsTranscode bool
	Offending      *ffprobe.Stream
	Checked        int
}

// Reason returns a short description of the verdict.
func (v Verdict) Reason(p Policy) string {
	if !v.NeedsTranscode || v.Offending == nil {
		return "all streams accepted"
	}
	return p.Reason(*v.Offending)
}

// Verdict consumes streams in order and stops at the first unacceptable one.
// Source errors and unknown codecs are returned as errors, never as verdicts.
func (p Policy) Verdict(source StreamSource) (Verdict, error) {
	var verdict Verdict
	for source.Next() {
		stream := source.Stream()
		verdict.Checked++
		ok, err := p.Acceptable(stream)
		if err != nil {
			return Verdict{}, err
		}
		if !ok {
			verdict.NeedsTranscode = true
			verdict.Offending = &stream
			return verdict, nil
		}
	}
	if err := source.Err(); err != nil {
		return Verdict{}, err
	}
	return verdict, nil
}
