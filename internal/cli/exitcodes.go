package cli

import (
	"errors"
	"strconv"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, unexpected failures, or any error that
	// doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, no board selected, bad arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Board, column, feedback item or action item not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Unreadable or invalid import files.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty titles, wrong phase, vote limits, invalid grouping.
	ExitValidation = 5
)

// ExitStatus is returned by commands whose failure maps to a specific
// process exit code. main unwraps it and passes Code to os.Exit.
type ExitStatus struct {
	Code int
	Err  error
}

// NewExitStatus wraps err with an exit code
func NewExitStatus(code int, err error) *ExitStatus {
	return &ExitStatus{Code: code, Err: err}
}

func (e *ExitStatus) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitStatus) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for an error returned by a command
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var status *ExitStatus
	if errors.As(err, &status) {
		return status.Code
	}
	return ExitError
}
