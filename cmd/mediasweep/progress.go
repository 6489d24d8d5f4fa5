package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

type recorder interface {
	Record(ctx context.Context, path, verdict, reason string)
}

// runProgress forwards verdicts to the history tracker and ticks a spinner on
// interactive terminals. The spinner is cleared when the run ends so the
// summary line is the last thing printed.
type runProgress struct {
	next recorder
	bar  *progressbar.ProgressBar
}

func newRunProgress(w io.Writer, next recorder, description string) *runProgress {
	p := &runProgress{next: next}
	file, ok := w.(*os.File)
	if !ok || !shouldColorize(file) {
		return p
	}
	p.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(file),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return p
}

func (p *runProgress) Record(ctx context.Context, path, verdict, reason string) {
	if p.next != nil {
		p.next.Record(ctx, path, verdict, reason)
	}
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *runProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
