package events

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// ErrorCode tells why the daemon could not be reached
type ErrorCode int

const (
	ErrSocketNotFound ErrorCode = iota
	ErrSocketPermission
	ErrDaemonNotRunning
	ErrStaleSocket
	ErrNotASocket
	ErrDaemonUnresponsive
)

// DaemonError is a connection failure with a hint the user can act on
type DaemonError struct {
	Code    ErrorCode
	Message string
	Hint    string
}

func (e *DaemonError) Error() string {
	if e.Hint != "" {
		return e.Message + ". " + e.Hint
	}
	return e.Message
}

// ClassifyDaemonError explains a failed connection to the daemon at
// socketPath. A refused connection is told apart by what is left on disk:
// a socket file whose daemon exited, or a path that is not a socket at all.
func ClassifyDaemonError(socketPath string, err error) *DaemonError {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &DaemonError{
			Code:    ErrSocketNotFound,
			Message: "No daemon socket at " + socketPath,
			Hint:    "Start it with 'retro daemon'",
		}

	case errors.Is(err, fs.ErrPermission):
		return &DaemonError{
			Code:    ErrSocketPermission,
			Message: "Permission denied on " + socketPath,
			Hint:    fmt.Sprintf("The socket directory must belong to you: chmod 700 %s", filepath.Dir(socketPath)),
		}

	case errors.Is(err, syscall.ECONNREFUSED):
		if info, statErr := os.Stat(socketPath); statErr == nil && info.Mode()&fs.ModeSocket == 0 {
			return &DaemonError{
				Code:    ErrNotASocket,
				Message: socketPath + " is not a socket",
				Hint:    "Point socket_path (or --socket) at a different file",
			}
		}
		return &DaemonError{
			Code:    ErrStaleSocket,
			Message: "Stale socket at " + socketPath + " from a daemon that is no longer running",
			Hint:    "Start it with 'retro daemon', which replaces the old socket",
		}

	case errors.Is(err, context.DeadlineExceeded):
		return &DaemonError{
			Code:    ErrDaemonUnresponsive,
			Message: "Daemon at " + socketPath + " did not answer in time",
			Hint:    "Restart it with 'retro daemon'",
		}
	}

	return &DaemonError{
		Code:    ErrDaemonNotRunning,
		Message: "Daemon not running",
		Hint:    "Start it with 'retro daemon'",
	}
}

// Client errors
var (
	ErrNilClient    = errors.New("event client is nil")
	ErrNotConnected = errors.New("not connected to daemon")
	ErrClientClosed = errors.New("event client closed")
	ErrQueueFull    = errors.New("event queue full")
)
