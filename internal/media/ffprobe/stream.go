package ffprobe

// Codec identifies the kind of elementary stream.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecVideo
	CodecAudio
	CodecSubtitle
)

// ParseCodec maps an ffprobe codec_type value onto a Codec. Matching is exact
// and case-sensitive; data and attachment streams are reported as unsupported.
func ParseCodec(value string) (Codec, bool) {
	switch value {
	case "video":
		return CodecVideo, true
	case "audio":
		return CodecAudio, true
	case "subtitle":
		return CodecSubtitle, true
	default:
		return CodecUnknown, false
	}
}

func (c Codec) String() string {
	switch c {
	case CodecVideo:
		return "video"
	case CodecAudio:
		return "audio"
	case CodecSubtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

// Stream describes a single track reported by ffprobe.
type Stream struct {
	Codec     Codec
	CodecName string
	Language  string

	hasName     bool
	hasLanguage bool
}

// SetCodecName records the codec name, even when ffprobe reports it empty.
func (s *Stream) SetCodecName(name string) {
	s.CodecName = name
	s.hasName = true
}

// SetLanguage records the language tag, even when ffprobe reports it empty.
func (s *Stream) SetLanguage(language string) {
	s.Language = language
	s.hasLanguage = true
}

// HasCodecName reports whether a codec_name field was seen.
func (s Stream) HasCodecName() bool { return s.hasName }

// HasLanguage reports whether a language tag was seen.
func (s Stream) HasLanguage() bool { return s.hasLanguage }

// Filled reports whether the record carries everything needed for
// classification. Video tracks need no language tag.
func (s Stream) Filled() bool {
	if s.Codec == CodecUnknown || !s.hasName {
		return false
	}
	return s.Codec == CodecVideo || s.hasLanguage
}
