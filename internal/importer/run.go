package importer

import (
	"context"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"mediasweep/internal/fileutil"
	"mediasweep/internal/logging"
	"mediasweep/internal/runlock"
)

// Options configures an import run.
type Options struct {
	InputDir  string
	TargetDir string
	// LockDir enables the per-library run lock when set.
	LockDir string
	Matcher *Matcher
}

// Summary describes a finished import.
type Summary struct {
	Pending  int
	Imported int
	Bytes    int64
	Duration time.Duration
}

// Run imports the top-level media files of InputDir into TargetDir. Input
// files left unmatched after the walk produce an *UnmatchedError; the
// replacements already made are kept.
func Run(ctx context.Context, opts Options) (Summary, error) {
	start := time.Now()
	if err := fileutil.ValidateDirectory(opts.InputDir); err != nil {
		return Summary{}, err
	}
	if err := fileutil.ValidateDirectory(opts.TargetDir); err != nil {
		return Summary{}, err
	}
	matcher := opts.Matcher
	if matcher == nil {
		matcher = &Matcher{}
	}
	logger := logging.NewComponentLogger(matcher.Logger, "import")

	if opts.LockDir != "" {
		key := opts.TargetDir
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		lock, err := runlock.Acquire(opts.LockDir, "import", key)
		if err != nil {
			return Summary{}, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Debug("lock release failed", logging.Error(err))
			}
		}()
	}

	pending, err := BuildPending(opts.InputDir, matcher.Logger)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Pending: len(pending)}
	logger.Info("import started",
		logging.String("input_directory", opts.InputDir),
		logging.String("target_directory", opts.TargetDir),
		logging.Int("pending", summary.Pending),
	)

	result, err := matcher.Drain(ctx, opts.TargetDir, pending)
	summary.Imported = result.Imported
	summary.Bytes = result.Bytes
	summary.Duration = time.Since(start)
	if err != nil {
		return summary, err
	}
	if len(pending) > 0 {
		return summary, &UnmatchedError{Sources: pending.Sources()}
	}

	logger.Info("import complete",
		logging.Int("imported", summary.Imported),
		logging.String("copied", humanize.Bytes(uint64(summary.Bytes))),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}
