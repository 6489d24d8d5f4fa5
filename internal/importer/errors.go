package importer

import (
	"strings"

	"mediasweep/internal/services"
)

const unmatchedHeader = "import failed: remaining media not imported:"

// UnmatchedError lists the input files that matched no library file.
type UnmatchedError struct {
	Sources []string
}

func (e *UnmatchedError) Error() string {
	var b strings.Builder
	b.WriteString(unmatchedHeader)
	for _, source := range e.Sources {
		b.WriteByte('\n')
		b.WriteString(source)
	}
	return b.String()
}

func (e *UnmatchedError) Unwrap() error { return services.ErrUnmatched }
