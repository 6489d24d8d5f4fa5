package importer

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"mediasweep/internal/logging"
	"mediasweep/internal/mediafile"
	"mediasweep/internal/services"
)

// Pending maps a base name to the input file waiting to be imported.
type Pending map[string]string

// Sources returns the pending input paths in sorted order.
func (p Pending) Sources() []string {
	sources := make([]string, 0, len(p))
	for _, source := range p {
		sources = append(sources, source)
	}
	slices.Sort(sources)
	return sources
}

// BuildPending indexes the media files at the top level of inputDir.
// Subdirectories are not descended into. When two files share a base name
// the one listed last wins.
func BuildPending(inputDir string, logger *slog.Logger) (Pending, error) {
	logger = logging.NewComponentLogger(logger, "import")
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "import", "read input directory", inputDir, err)
	}

	pending := make(Pending)
	for _, entry := range entries {
		if entry.IsDir() || !mediafile.IsMedia(entry.Name()) {
			continue
		}
		source := filepath.Join(inputDir, entry.Name())
		key := mediafile.BaseName(source)
		if previous, ok := pending[key]; ok {
			logger.Debug("duplicate base name in input directory",
				logging.String("base_name", key),
				logging.String("replaced", previous),
				logging.String("kept", source),
			)
		}
		pending[key] = source
	}
	return pending, nil
}
