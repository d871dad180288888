package main

import "fmt"

// Exit codes for CLI commands.
const (
	exitSuccess          = 0
	exitError            = 1
	exitNotRunning       = 2
	exitAlreadyRunning   = 3
	exitNoReply          = 4
	exitInvalidArtifact  = 5
	exitArtifactNotFound = 6
)

// ExitError represents an error that should cause the process to exit with a specific code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func errNotRunning() *ExitError {
	return &ExitError{
		Code:    exitNotRunning,
		Message: "",
	}
}

func errAlreadyRunning(pid int) *ExitError {
	return &ExitError{
		Code:    exitAlreadyRunning,
		Message: fmt.Sprintf("Endpoint is already running (PID: %d).", pid),
	}
}

func errNoReply(device string) *ExitError {
	return &ExitError{
		Code:    exitNoReply,
		Message: fmt.Sprintf("No reply from endpoint on %s.\nCheck that 'ledlink serve' is running on the other side.", device),
	}
}

func errInvalidArtifact() *ExitError {
	return &ExitError{
		Code:    exitInvalidArtifact,
		Message: "",
	}
}

func errArtifactNotFound(name string) *ExitError {
	return &ExitError{
		Code:    exitArtifactNotFound,
		Message: fmt.Sprintf("Artifact '%s' not found.", name),
	}
}
