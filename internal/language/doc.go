// Package language turns the language tags ffprobe reports into readable
// names. ffprobe passes container tags through verbatim, so the same
// language shows up as ISO 639-2/T ("fra"), ISO 639-2/B ("fre"), ISO 639-1
// ("fr") or the undetermined marker "und".
package language
