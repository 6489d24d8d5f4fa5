// Package export copies a hand-picked list of library files into a flat
// directory, typically a list produced by search and then edited.
package export

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"mediasweep/internal/fileutil"
	"mediasweep/internal/inventory"
	"mediasweep/internal/logging"
	"mediasweep/internal/mediafile"
	"mediasweep/internal/services"
)

// Recorder receives one entry per exported file; *inventory.Tracker
// satisfies it.
type Recorder interface {
	Record(ctx context.Context, path, verdict, reason string)
}

// Options configures an export run.
type Options struct {
	ListPath  string
	ExportDir string
	Logger    *slog.Logger
	Recorder  Recorder
}

// Summary describes a finished export.
type Summary struct {
	Files    int
	Bytes    int64
	Duration time.Duration
}

// Run validates every entry of the list before copying anything, then copies
// each file into ExportDir under its leaf name. The first failed copy ends the
// run; files already exported stay in place.
func Run(ctx context.Context, opts Options) (Summary, error) {
	start := time.Now()
	if err := fileutil.ValidateInputFile(opts.ListPath); err != nil {
		return Summary{}, err
	}
	if err := fileutil.ValidateDirectory(opts.ExportDir); err != nil {
		return Summary{}, err
	}
	logger := logging.NewComponentLogger(opts.Logger, "export")

	entries, err := ReadList(opts.ListPath)
	if err != nil {
		return Summary{}, err
	}
	if err := validateEntries(entries); err != nil {
		return Summary{}, err
	}

	logger.Info("export started",
		logging.String("medias_list", opts.ListPath),
		logging.String("export_directory", opts.ExportDir),
		logging.Int("files", len(entries)),
	)

	var summary Summary
	for i, source := range entries {
		destination := filepath.Join(opts.ExportDir, filepath.Base(source))
		size, err := fileutil.CopyAtomic(source, destination, 0o644)
		if err != nil {
			summary.Duration = time.Since(start)
			return summary, services.Wrap(services.ErrIO, "export", "copy", fmt.Sprintf("%s to %s", source, destination), err)
		}
		summary.Files++
		summary.Bytes += size
		if opts.Recorder != nil {
			opts.Recorder.Record(ctx, destination, inventory.VerdictExported, "from "+source)
		}
		logger.Info("media exported",
			logging.String("progress", fmt.Sprintf("%d/%d", i+1, len(entries))),
			logging.String("source", source),
			logging.String("destination", destination),
			logging.String("size", humanize.Bytes(uint64(size))),
			logging.Int64("bytes", size),
		)
	}
	summary.Duration = time.Since(start)

	logger.Info("export complete",
		logging.Int("files", summary.Files),
		logging.String("copied", humanize.Bytes(uint64(summary.Bytes))),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// ReadList returns the non-empty lines of a media list. Only a trailing
// carriage return is stripped; paths are otherwise kept verbatim.
func ReadList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "export", "open list", path, err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrIO, "export", "read list", path, err)
	}
	return entries, nil
}

func validateEntries(entries []string) error {
	seen := make(map[string]string, len(entries))
	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil || !info.Mode().IsRegular() || !mediafile.IsMedia(entry) {
			return services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("%s is not a valid media file", entry), nil)
		}
		leaf := filepath.Base(entry)
		if previous, ok := seen[leaf]; ok && previous != entry {
			return services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("%s and %s would both be exported as %s", previous, entry, leaf), nil)
		}
		seen[leaf] = entry
	}
	return nil
}
