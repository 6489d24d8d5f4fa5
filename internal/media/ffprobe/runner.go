package ffprobe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"mediasweep/internal/logging"
	"mediasweep/internal/services"
)

const defaultBinary = "ffprobe"

// ProbeLaunchError reports that ffprobe could not be started or its output
// could not be attached.
type ProbeLaunchError struct {
	Binary string
	Path   string
	Err    error
}

func (e *ProbeLaunchError) Error() string {
	return fmt.Sprintf("ffprobe launch %q for %s: %v", e.Binary, e.Path, e.Err)
}

func (e *ProbeLaunchError) Unwrap() []error { return []error{services.ErrExternalTool, e.Err} }

// Runner launches ffprobe against media files.
type Runner struct {
	Binary string
	Logger *slog.Logger
}

// NewRunner returns a Runner for the given binary, defaulting to ffprobe on PATH.
func NewRunner(binary string, logger *slog.Logger) *Runner {
	return &Runner{Binary: binary, Logger: logger}
}

func (r *Runner) binary() string {
	if r == nil {
		return defaultBinary
	}
	if binary := strings.TrimSpace(r.Binary); binary != "" {
		return binary
	}
	return defaultBinary
}

// Open starts ffprobe for path with quiet, stream-only, compact output and
// returns a Session over its standard output. The caller must Close it.
func (r *Runner) Open(ctx context.Context, path string) (*Session, error) {
	binary := r.binary()
	if strings.TrimSpace(path) == "" {
		return nil, &ProbeLaunchError{Binary: binary, Path: path, Err: errors.New("empty path")}
	}

	cmd := exec.CommandContext(ctx, binary, "-show_streams", "-loglevel", "quiet", "-print_format", "compact", "--", path)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &ProbeLaunchError{Binary: binary, Path: path, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &ProbeLaunchError{Binary: binary, Path: path, Err: err}
	}

	var logger *slog.Logger
	if r != nil {
		logger = r.Logger
	}
	logger = logging.NewComponentLogger(logger, "ffprobe")
	logger.Debug("ffprobe started", logging.String("path", path), logging.Int("pid", cmd.Process.Pid))

	return newSession(path, stdout, cmd, logger), nil
}

// Source is an open probe: a lazy stream sequence that must be closed.
type Source interface {
	Next() bool
	Stream() Stream
	Err() error
	Close() error
}

// Probe is Open behind the Source interface.
func (r *Runner) Probe(ctx context.Context, path string) (Source, error) {
	session, err := r.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Session yields the Streams of one ffprobe run in output order. It follows
// the bufio.Scanner pattern: call Next until it returns false, then check Err.
type Session struct {
	path    string
	scanner *bufio.Scanner
	cmd     *exec.Cmd
	logger  *slog.Logger

	current Stream
	err     error
	done    bool
	drained bool
	closed  bool
}

func newSession(path string, r io.Reader, cmd *exec.Cmd, logger *slog.Logger) *Session {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{path: path, scanner: scanner, cmd: cmd, logger: logger}
}

// Next advances to the next filled stream record. Lines that do not describe a
// supported, filled stream are skipped.
func (s *Session) Next() bool {
	if s.done {
		return false
	}
	for s.scanner.Scan() {
		stream, ok, err := ParseLine(s.scanner.Text())
		if err != nil {
			s.err = fmt.Errorf("ffprobe output for %s: %w", s.path, err)
			s.done = true
			return false
		}
		if !ok {
			continue
		}
		s.current = stream
		return true
	}
	if err := s.scanner.Err(); err != nil {
		s.err = services.Wrap(services.ErrIO, "ffprobe", "read output", s.path, err)
	} else {
		s.drained = true
	}
	s.done = true
	return false
}

// Stream returns the record produced by the last successful Next.
func (s *Session) Stream() Stream {
	return s.current
}

// Err returns the first parse or read error encountered.
func (s *Session) Err() error {
	return s.err
}

// Close releases the ffprobe process. Unless the output was read cleanly to EOF
// (early stop, parse error, read error) the process is killed first so it
// cannot block on a full pipe. The exit status is not reported: the end of the
// output stream is the completion signal.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	if !s.drained {
		_ = s.cmd.Process.Kill()
	}
	if err := s.cmd.Wait(); err != nil {
		s.logger.Debug("ffprobe exited", logging.String("path", s.path), logging.Error(err))
	}
	return nil
}

// Collect drains a source into a slice and closes it.
func Collect(s Source) ([]Stream, error) {
	defer s.Close()
	var streams []Stream
	for s.Next() {
		streams = append(streams, s.Stream())
	}
	return streams, s.Err()
}
