package search

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"mediasweep/internal/inventory"
	"mediasweep/internal/logging"
	"mediasweep/internal/media/ffprobe"
	"mediasweep/internal/mediafile"
	"mediasweep/internal/policy"
	"mediasweep/internal/services"
	"mediasweep/internal/walk"
)

const reasonLegacyContainer = "legacy container"

// Prober opens a stream listing for one media file. *ffprobe.Runner
// satisfies it.
type Prober interface {
	Probe(ctx context.Context, path string) (ffprobe.Source, error)
}

// Recorder receives the verdict of every media file the scanner classifies.
// Implementations must not fail the scan; *inventory.Tracker satisfies it.
type Recorder interface {
	Record(ctx context.Context, path, verdict, reason string)
}

// Summary describes a finished scan.
type Summary struct {
	Visited    int
	Probed     int
	Candidates int
	Duration   time.Duration
}

// Scanner classifies the media files under a root.
type Scanner struct {
	Prober   Prober
	Policy   policy.Policy
	Logger   *slog.Logger
	Recorder Recorder
}

// Scan walks root and writes every transcode candidate to w as path + "\n".
// Any probe, parse or classification error ends the scan.
func (s *Scanner) Scan(ctx context.Context, root string, w io.Writer) (Summary, error) {
	start := time.Now()
	logger := logging.NewComponentLogger(s.Logger, "search")
	var summary Summary

	err := walk.Files(root, func(path string, _ fs.DirEntry) error {
		summary.Visited++
		if !mediafile.IsMedia(path) {
			return nil
		}
		candidate, reason, err := s.classify(ctx, path, &summary)
		if err != nil {
			return err
		}
		verdict := inventory.VerdictKeep
		if candidate {
			verdict = inventory.VerdictTranscode
		}
		if s.Recorder != nil {
			s.Recorder.Record(ctx, path, verdict, reason)
		}
		if !candidate {
			logger.Debug("streams accepted", logging.String("path", path))
			return nil
		}
		if _, err := io.WriteString(w, path+"\n"); err != nil {
			return services.Wrap(services.ErrIO, "search", "write listing", path, err)
		}
		summary.Candidates++
		logger.Info("transcode candidate",
			logging.String("path", path),
			logging.String("reason", reason),
			logging.Bool("probed", mediafile.NeedsProbe(path)),
			logging.Int("candidates", summary.Candidates),
		)
		return nil
	})
	summary.Duration = time.Since(start)
	if err != nil {
		return summary, err
	}
	return summary, nil
}

func (s *Scanner) classify(ctx context.Context, path string, summary *Summary) (bool, string, error) {
	if mediafile.IsLegacyContainer(path) {
		return true, reasonLegacyContainer, nil
	}
	if s.Prober == nil {
		return false, "", fmt.Errorf("search: no prober configured")
	}
	source, err := s.Prober.Probe(ctx, path)
	if err != nil {
		return false, "", err
	}
	defer source.Close()
	summary.Probed++

	verdict, err := s.Policy.Verdict(source)
	if err != nil {
		return false, "", fmt.Errorf("classify %s: %w", path, err)
	}
	if !verdict.NeedsTranscode {
		return false, "", nil
	}
	return true, verdict.Reason(s.Policy), nil
}
