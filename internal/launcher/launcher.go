// Package launcher spawns the external player executables.
package launcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Launcher runs executables from a fixed working directory. The contract
// with a child is argv in, exit status out.
type Launcher struct {
	workDir   string
	logWriter io.Writer
	logger    *slog.Logger
}

// New creates a launcher. Relative executable paths resolve against workDir.
func New(workDir string, logger *slog.Logger) *Launcher {
	return &Launcher{
		workDir: workDir,
		logger:  logger,
	}
}

// SetLogWriter sets the destination for child stdout/stderr.
// If not set, stdout/stderr are used.
func (l *Launcher) SetLogWriter(w io.Writer) {
	l.logWriter = w
}

// Run spawns path with args and waits for it to exit. Cancelling ctx kills
// the child.
func (l *Launcher) Run(ctx context.Context, path string, args ...string) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = l.workDir
	if l.logWriter != nil {
		cmd.Stdout = l.logWriter
		cmd.Stderr = l.logWriter
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return &ProcessError{Op: ProcessOpStart, Path: path, Err: err}
	}
	l.logger.Info("process started", "path", path, "args", strings.Join(args, " "), "pid", cmd.Process.Pid)

	if err := cmd.Wait(); err != nil {
		return &ProcessError{Op: ProcessOpWait, Path: path, Err: err}
	}
	return nil
}

// Task is the handle of a detached process. Callers may drop it; the
// outcome is always written to the log.
type Task struct {
	done chan struct{}
	err  error
}

// Done is closed when the child has exited or failed to start.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the process error. Only valid after Done is closed.
func (t *Task) Err() error {
	return t.err
}

// Detach spawns path on its own goroutine and returns immediately. The
// child is never cancelled; it outlives shutdown of the caller.
func (l *Launcher) Detach(path string, args ...string) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.err = l.Run(context.Background(), path, args...)
		if t.err != nil {
			l.logger.Error("detached process failed", "path", path, "error", t.err)
			return
		}
		l.logger.Info("detached process exited", "path", path)
	}()
	return t
}
