package launcher

import (
	"errors"
	"fmt"
	"os/exec"
)

// ProcessOp represents a child process operation.
type ProcessOp string

const (
	ProcessOpStart ProcessOp = "start"
	ProcessOpWait  ProcessOp = "wait"
)

// ProcessError indicates an external executable could not be spawned or
// exited unsuccessfully.
type ProcessError struct {
	Op   ProcessOp
	Path string
	Err  error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// ExitCode returns the child's exit code, or -1 if it never exited normally.
func (e *ProcessError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// IsProcessError reports whether err indicates a child process failure.
func IsProcessError(err error) bool {
	var pe *ProcessError
	return errors.As(err, &pe)
}
