package policy_test

import (
	"errors"
	"strings"
	"testing"

	"mediasweep/internal/config"
	"mediasweep/internal/media/ffprobe"
	"mediasweep/internal/policy"
	"mediasweep/internal/services"
)

func mustParse(t *testing.T, line string) ffprobe.Stream {
	t.Helper()
	stream, ok, err := ffprobe.ParseLine(line)
	if err != nil || !ok {
		t.Fatalf("ParseLine(%q) = %v, %v", line, ok, err)
	}
	return stream
}

func TestAcceptable(t *testing.T) {
	p := policy.Default()
	cases := []struct {
		line string
		want bool
	}{
		{"stream|codec_type=video|codec_name=h264", true},
		{"stream|codec_type=video|codec_name=hevc", false},
		{"stream|codec_type=audio|codec_name=aac|tag:language=jpn", true},
		{"stream|codec_type=audio|codec_name=mp3|tag:language=eng", false},
		{"stream|codec_type=subtitle|codec_name=srt|TAG:LANGUAGE=fra", true},
		{"stream|codec_type=subtitle|codec_name=ass|tag:language=fre", true},
		{"stream|codec_type=subtitle|codec_name=pgs|tag:language=eng", true},
		{"stream|codec_type=subtitle|codec_name=pgs|tag:language=und", true},
		{"stream|codec_type=subtitle|codec_name=srt|tag:language=spa", false},
		{"stream|codec_type=subtitle|codec_name=srt|tag:language=ENG", false},
	}
	for _, tc := range cases {
		got, err := p.Acceptable(mustParse(t, tc.line))
		if err != nil {
			t.Fatalf("Acceptable(%q) error: %v", tc.line, err)
		}
		if got != tc.want {
			t.Fatalf("Acceptable(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestAcceptableUnknownCodecIsFatal(t *testing.T) {
	var stream ffprobe.Stream
	stream.SetCodecName("h264")
	_, err := policy.Default().Acceptable(stream)
	if !errors.Is(err, policy.ErrUnknownCodec) || !errors.Is(err, services.ErrInvariant) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

type sliceSource struct {
	streams []ffprobe.Stream
	pos     int
	err     error
}

func (s *sliceSource) Next() bool {
	if s.pos >= len(s.streams) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceSource) Stream() ffprobe.Stream { return s.streams[s.pos-1] }

func (s *sliceSource) Err() error {
	if s.pos >= len(s.streams) {
		return s.err
	}
	return nil
}

func TestVerdictShortCircuits(t *testing.T) {
	source := &sliceSource{streams: []ffprobe.Stream{
		mustParse(t, "stream|codec_type=video|codec_name=h264"),
		mustParse(t, "stream|codec_type=audio|codec_name=dts|tag:language=eng"),
		mustParse(t, "stream|codec_type=audio|codec_name=aac|tag:language=eng"),
	}}
	p := policy.Default()
	verdict, err := p.Verdict(source)
	if err != nil {
		t.Fatalf("Verdict: %v", err)
	}
	if !verdict.NeedsTranscode || verdict.Checked != 2 || source.pos != 2 {
		t.Fatalf("expected short-circuit after 2 streams, got %+v (pos %d)", verdict, source.pos)
	}
	if verdict.Offending == nil || verdict.Offending.CodecName != "dts" {
		t.Fatalf("unexpected offending stream %+v", verdict.Offending)
	}
	if reason := verdict.Reason(p); !strings.Contains(reason, `audio codec "dts"`) {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestVerdictAllAccepted(t *testing.T) {
	source := &sliceSource{streams: []ffprobe.Stream{
		mustParse(t, "stream|codec_type=video|codec_name=h264"),
		mustParse(t, "stream|codec_type=audio|codec_name=aac|tag:language=eng"),
	}}
	p := policy.Default()
	verdict, err := p.Verdict(source)
	if err != nil {
		t.Fatalf("Verdict: %v", err)
	}
	if verdict.NeedsTranscode || verdict.Checked != 2 {
		t.Fatalf("unexpected verdict %+v", verdict)
	}
	if verdict.Reason(p) != "all streams accepted" {
		t.Fatalf("unexpected reason %q", verdict.Reason(p))
	}
}

func TestVerdictPropagatesSourceError(t *testing.T) {
	boom := errors.New("read failed")
	source := &sliceSource{streams: []ffprobe.Stream{mustParse(t, "stream|codec_type=video|codec_name=h264")}, err: boom}
	if _, err := policy.Default().Verdict(source); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Policy.VideoCodecs = []string{"h264", "hevc"}
	p := policy.FromConfig(&cfg)
	ok, err := p.Acceptable(mustParse(t, "stream|codec_type=video|codec_name=hevc"))
	if err != nil || !ok {
		t.Fatalf("expected hevc accepted by configured policy, got %v %v", ok, err)
	}
	cfg.Policy.VideoCodecs[0] = "mutated"
	if p.VideoCodecs[0] != "h264" {
		t.Fatal("policy must not alias config slices")
	}
	if got := policy.FromConfig(nil); len(got.SubtitleLanguages) != 4 {
		t.Fatalf("nil config should yield default policy, got %+v", got)
	}
}

func TestSubtitleReason(t *testing.T) {
	p := policy.Default()
	reason := p.Reason(mustParse(t, "stream|codec_type=subtitle|codec_name=srt|tag:language=spa"))
	if reason != `subtitle language "spa" not accepted` {
		t.Fatalf("unexpected reason %q", reason)
	}
}
