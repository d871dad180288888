package daemon

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

var (
	// ErrPIDFileNotFound is returned when the PID file does not exist.
	ErrPIDFileNotFound = errors.New("PID file not found")
	// ErrInvalidPIDFile is returned when the PID file contains invalid data.
	ErrInvalidPIDFile = errors.New("invalid PID file")
	// ErrAlreadyRunning is returned when another endpoint holds the PID file.
	ErrAlreadyRunning = errors.New("endpoint already running")
)

// Status is the liveness of the endpoint process recorded in a PID file.
type Status struct {
	Running bool
	PID     int
}

// WritePIDFile writes the current process ID to the specified file.
func WritePIDFile(path string) error {
	data := []byte(strconv.Itoa(os.Getpid()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	return nil
}

// ReadPIDFile reads the process ID from the specified file.
// Returns ErrPIDFileNotFound if the file doesn't exist.
// Returns ErrInvalidPIDFile if the file contains invalid data.
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrPIDFileNotFound
		}
		return 0, fmt.Errorf("read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPIDFile, err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("%w: invalid PID %d", ErrInvalidPIDFile, pid)
	}
	return pid, nil
}

// IsProcessRunning checks if a process with the given PID is running,
// using signal 0 so nothing is delivered.
func IsProcessRunning(pid int) (bool, error) {
	if pid <= 0 {
		return false, fmt.Errorf("invalid PID: %d", pid)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, fmt.Errorf("find process: %w", err)
	}

	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, syscall.ESRCH), errors.Is(err, os.ErrProcessDone):
		return false, nil
	case errors.Is(err, syscall.EPERM):
		// Exists, owned by someone else.
		return true, nil
	}
	return false, fmt.Errorf("check process: %w", err)
}

// GetStatus reports whether the process recorded in the PID file is alive.
// A missing PID file means not running.
func GetStatus(pidPath string) (*Status, error) {
	status := &Status{}

	pid, err := ReadPIDFile(pidPath)
	if err != nil {
		if errors.Is(err, ErrPIDFileNotFound) {
			return status, nil
		}
		return status, fmt.Errorf("read PID: %w", err)
	}
	status.PID = pid

	running, err := IsProcessRunning(pid)
	if err != nil {
		return status, fmt.Errorf("check process %d: %w", pid, err)
	}
	status.Running = running
	return status, nil
}

// AcquirePIDFile records this process in the PID file unless a live
// process already holds it. Stale or corrupt PID files are replaced.
func AcquirePIDFile(path string) error {
	status, err := GetStatus(path)
	if err == nil && status.Running && status.PID != os.Getpid() {
		return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, status.PID)
	}
	return WritePIDFile(path)
}

// RemovePIDFile removes the PID file. It's safe to call even if the file doesn't exist.
func RemovePIDFile(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove PID file: %w", err)
	}
	return nil
}
