package inventory

import (
	"context"
	"log/slog"

	"mediasweep/internal/logging"
)

// Tracker records a single run. History is advisory: every store failure is
// logged as a warning and swallowed, so a Tracker never changes the outcome
// of the run it observes. A nil Tracker, or one without a store, only
// carries the run identifier.
type Tracker struct {
	store  *Store
	runID  string
	logger *slog.Logger
	broken bool
}

// Track begins a run in store. store may be nil when history is disabled.
func Track(ctx context.Context, store *Store, logger *slog.Logger, run Run) *Tracker {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	t := &Tracker{store: store, runID: run.ID, logger: logging.NewComponentLogger(logger, "inventory")}
	if store == nil {
		return t
	}
	if _, err := store.BeginRun(ctx, run); err != nil {
		t.warn("history run not recorded", err)
		t.broken = true
	}
	return t
}

// RunID returns the identifier shared by logs and history.
func (t *Tracker) RunID() string {
	if t == nil {
		return ""
	}
	return t.runID
}

// Record stores a per-file verdict.
func (t *Tracker) Record(ctx context.Context, path, verdict, reason string) {
	if !t.active() {
		return
	}
	if err := t.store.RecordFile(ctx, t.runID, path, verdict, reason); err != nil {
		t.warn("history file entry not recorded", err, logging.String("path", path))
		t.broken = true
	}
}

// Finish closes the run with its totals and outcome.
func (t *Tracker) Finish(ctx context.Context, totals Totals, runErr error) {
	if !t.active() {
		return
	}
	if err := t.store.FinishRun(ctx, t.runID, totals, runErr); err != nil {
		t.warn("history run not finalized", err)
	}
}

func (t *Tracker) active() bool {
	return t != nil && t.store != nil && !t.broken
}

func (t *Tracker) warn(msg string, err error, attrs ...logging.Attr) {
	attrs = append(attrs,
		logging.String(logging.FieldRunID, t.runID),
		logging.String("database", t.store.Path()),
		logging.Error(err),
		logging.String(logging.FieldImpact, "run history incomplete; run outcome unaffected"),
	)
	logging.WarnWithContext(t.logger, msg, "history_write_failed", attrs...)
}
