package search

import (
	"context"
	"path/filepath"

	"mediasweep/internal/fileutil"
	"mediasweep/internal/logging"
	"mediasweep/internal/runlock"
)

// Options configures a search run.
type Options struct {
	MediaDir   string
	OutputFile string
	// LockDir enables the per-output run lock when set.
	LockDir string
	Scanner *Scanner
}

// Run validates the paths, scans MediaDir into a temporary sibling of
// OutputFile and renames it over OutputFile once the scan has succeeded.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if err := fileutil.ValidateDirectory(opts.MediaDir); err != nil {
		return Summary{}, err
	}
	if err := fileutil.ValidateOutputFile(opts.OutputFile); err != nil {
		return Summary{}, err
	}
	scanner := opts.Scanner
	if scanner == nil {
		scanner = &Scanner{}
	}
	logger := logging.NewComponentLogger(scanner.Logger, "search")

	if opts.LockDir != "" {
		key := opts.OutputFile
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		lock, err := runlock.Acquire(opts.LockDir, "search", key)
		if err != nil {
			return Summary{}, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Debug("lock release failed", logging.Error(err))
			}
		}()
	}

	out, err := fileutil.CreateAtomic(opts.OutputFile)
	if err != nil {
		return Summary{}, err
	}

	logger.Info("search started",
		logging.String("media_directory", opts.MediaDir),
		logging.String("output_file", opts.OutputFile),
	)
	summary, err := scanner.Scan(ctx, opts.MediaDir, out)
	if err != nil {
		out.Abort()
		return summary, err
	}
	if err := out.Commit(); err != nil {
		return summary, err
	}

	logger.Info("search complete",
		logging.Int("visited", summary.Visited),
		logging.Int("probed", summary.Probed),
		logging.Int("candidates", summary.Candidates),
		logging.Duration("duration", summary.Duration),
		logging.String("output_file", out.Name()),
	)
	return summary, nil
}
