package pipeline

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/meshfolio/meshfolio/internal/errors"
)

// Step is an optional pipeline collaborator: a presence check plus an
// invoke-and-report operation. Keeping collaborators behind this interface
// lets the orchestrator run with mocks in tests instead of real executables.
type Step interface {
	Name() string
	Available() bool
	Run(ctx context.Context) error
}

// ExecStep invokes an external executable with an explicit working
// directory. The pipeline never changes its own working directory.
type ExecStep struct {
	name string
	path string
	dir  string
	// Out and Err default to the process streams.
	Out io.Writer
	Err io.Writer
}

// NewExecStep creates a step for the executable at path, run with dir as its
// working directory.
func NewExecStep(name, path, dir string) *ExecStep {
	return &ExecStep{name: name, path: path, dir: dir}
}

// Name returns the step name.
func (s *ExecStep) Name() string { return s.name }

// Available reports whether the executable exists and is runnable.
func (s *ExecStep) Available() bool {
	info, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Mode().Perm()&0o111 != 0
}

// Run executes the collaborator and maps a non-zero exit to an error.
func (s *ExecStep) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, s.path)
	cmd.Dir = s.dir
	cmd.Stdout = s.Out
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = s.Err
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		errType := errors.ErrorTypeCatalog
		if s.name == "publish" {
			errType = errors.ErrorTypePublish
		}
		return errors.Wrap(err, errType, s.name+"_exit", s.name+" step exited with failure")
	}

	return nil
}
