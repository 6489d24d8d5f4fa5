package importer

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"mediasweep/internal/fileutil"
	"mediasweep/internal/inventory"
	"mediasweep/internal/logging"
	"mediasweep/internal/mediafile"
	"mediasweep/internal/walk"
)

// Recorder receives one entry per imported file. Implementations must not
// fail the import; *inventory.Tracker satisfies it.
type Recorder interface {
	Record(ctx context.Context, path, verdict, reason string)
}

// Matcher drains a Pending set against a library tree.
type Matcher struct {
	Logger   *slog.Logger
	Recorder Recorder
}

// DrainResult counts the replacements made by Drain.
type DrainResult struct {
	Imported int
	Bytes    int64
}

// Drain walks targetDir and replaces every media file whose base name is
// pending. Matched keys are removed from pending; the walk stops as soon as
// pending is empty and is skipped entirely when it starts empty. A failed
// replacement ends the drain with the error from fileutil.ReplaceWithBackup.
func (m *Matcher) Drain(ctx context.Context, targetDir string, pending Pending) (DrainResult, error) {
	var result DrainResult
	if len(pending) == 0 {
		return result, nil
	}
	logger := logging.NewComponentLogger(m.Logger, "import")
	total := len(pending)

	err := walk.Files(targetDir, func(target string, _ fs.DirEntry) error {
		if !mediafile.IsMedia(target) {
			return nil
		}
		key := mediafile.BaseName(target)
		source, ok := pending[key]
		if !ok {
			return nil
		}
		destination := filepath.Join(filepath.Dir(target), filepath.Base(source))
		size, err := fileutil.ReplaceWithBackup(target, source, destination)
		if err != nil {
			return err
		}
		delete(pending, key)
		result.Imported++
		result.Bytes += size

		if m.Recorder != nil {
			m.Recorder.Record(ctx, destination, inventory.VerdictImported, "from "+source)
		}
		logger.Info("media imported",
			logging.String("progress", progressLabel(result.Imported, total)),
			logging.String("source", source),
			logging.String("target", target),
			logging.String("destination", destination),
			logging.String("size", humanize.Bytes(uint64(size))),
			logging.Int64("bytes", size),
		)
		if len(pending) == 0 {
			return walk.ErrStop
		}
		return nil
	})
	return result, err
}

func progressLabel(done, total int) string {
	return humanize.Comma(int64(done)) + "/" + humanize.Comma(int64(total))
}
