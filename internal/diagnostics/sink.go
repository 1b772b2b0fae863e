// Package diagnostics captures the verbose stderr chatter produced while
// rendering into a per-run log file, keeping the primary status stream clean.
//
// The log doubles as a forensic dump and a grep-able ledger: raw captured
// output interleaved with one explicit "SUCCESS: <asset>" or
// "FAILED: <asset>: <reason>" line per processed asset.
package diagnostics

import (
	"fmt"
	"os"
	"sync"

	"github.com/meshfolio/meshfolio/internal/errors"
)

// stderrMu serializes redirection of the process-wide stderr stream.
// Concurrent captures would interleave or lose diagnostic text.
var stderrMu sync.Mutex

// Sink owns the diagnostic log for one pipeline run. The file is truncated
// when the sink is created.
type Sink struct {
	path string
	file *os.File
}

// NewSink creates (or truncates) the diagnostic log at path.
func NewSink(path string) (*Sink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "log_open", "failed to open diagnostic log")
	}

	return &Sink{path: path, file: file}, nil
}

// Path returns the log file location.
func (s *Sink) Path() string {
	return s.path
}

// Capture redirects stderr into the log for the duration of work, restoring
// it on every exit path including a panic inside work. After restoration it
// appends the explicit SUCCESS/FAILED ledger line for name. A panic is
// converted into the returned error rather than propagated: per-asset
// failures must never escape the batch.
func (s *Sink) Capture(name string, work func() error) (err error) {
	stderrMu.Lock()
	defer stderrMu.Unlock()

	orig := os.Stderr
	os.Stderr = s.file
	defer func() {
		os.Stderr = orig
		if r := recover(); r != nil {
			err = errors.NewRenderError("render_panic", fmt.Sprintf("panic while rendering: %v", r))
		}
		if err != nil {
			fmt.Fprintf(s.file, "FAILED: %s: %v\n", name, err)
		} else {
			fmt.Fprintf(s.file, "SUCCESS: %s\n", name)
		}
	}()

	return work()
}

// Close releases the log file. The sink must not be used afterwards.
func (s *Sink) Close() error {
	return s.file.Close()
}
