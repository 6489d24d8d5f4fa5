package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Undetermined is the ISO 639-2 code for an untagged or unknown language.
const Undetermined = "und"

// bibliographic maps ISO 639-2/B codes to their /T equivalents. Matroska
// files written by older muxers carry the /B form.
var bibliographic = map[string]string{
	"alb": "sqi",
	"arm": "hye",
	"baq": "eus",
	"bur": "mya",
	"chi": "zho",
	"cze": "ces",
	"dut": "nld",
	"fre": "fra",
	"geo": "kat",
	"ger": "deu",
	"gre": "ell",
	"ice": "isl",
	"mac": "mkd",
	"mao": "mri",
	"may": "msa",
	"per": "fas",
	"rum": "ron",
	"slo": "slk",
	"tib": "bod",
	"wel": "cym",
}

var namer = display.English.Languages()

// Terminology returns the ISO 639-2/T form of a 639-2/B code and any other
// input lowercased and trimmed.
func Terminology(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if t, ok := bibliographic[code]; ok {
		return t
	}
	return code
}

// Tag parses a reported language code. The boolean is false for empty,
// undetermined or unparseable codes.
func Tag(code string) (xlanguage.Tag, bool) {
	code = Terminology(code)
	if code == "" || code == Undetermined {
		return xlanguage.Und, false
	}
	tag, err := xlanguage.Parse(code)
	if err != nil || tag == xlanguage.Und {
		return xlanguage.Und, false
	}
	return tag, true
}

// DisplayName returns the English name of a reported language code:
// "Undetermined" for und or empty input, and the code itself when it is not
// a known language.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || strings.EqualFold(trimmed, Undetermined) {
		return "Undetermined"
	}
	tag, ok := Tag(trimmed)
	if !ok {
		return trimmed
	}
	if name := namer.Name(tag); name != "" {
		return name
	}
	return trimmed
}

// Label renders a code as "Name (code)", keeping the verbatim code so it can
// be compared with the policy's subtitle_languages list.
func Label(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "-"
	}
	name := DisplayName(trimmed)
	if name == trimmed {
		return trimmed
	}
	return fmt.Sprintf("%s (%s)", name, trimmed)
}
