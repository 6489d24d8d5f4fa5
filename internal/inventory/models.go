package inventory

import "time"

// Status is the lifecycle state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Verdicts recorded per file.
const (
	VerdictTranscode = "transcode"
	VerdictKeep      = "keep"
	VerdictImported  = "imported"
	VerdictExported  = "exported"
)

// Run is one search, import or export invocation.
type Run struct {
	ID         string
	Command    string
	Root       string
	Output     string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	// Files counts the files a run looked at; Candidates counts the ones it
	// acted on (listed for transcode, imported, exported).
	Files      int
	Candidates int
	Detail     string
}

// Duration returns the wall time of a finished run, or zero while running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FileRecord is a per-file outcome within a run.
type FileRecord struct {
	RunID      string
	Path       string
	Verdict    string
	Reason     string
	RecordedAt time.Time
}

// Totals are the counters stored when a run finishes.
type Totals struct {
	Files      int
	Candidates int
}
