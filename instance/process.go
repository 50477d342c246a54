package instance

import (
	"syscall"
	"time"
)

// Processes provides functions for working with processes
type Processes interface {
	// ListeningPids returns the pids of processes with a TCP socket listening on port.
	ListeningPids(port int) ([]int, error)

	// PidExists returns true iff the process with the provided PID exists.
	PidExists(pid int) (bool, error)

	// PidCommandMatches returns true iff the process with the provided PID exists,
	// and its command contains the provided string.
	PidCommandMatches(pid int, value string) (bool, error)

	// Info returns details of the process with the provided PID.
	Info(pid int) (ProcessInfo, error)

	// SendSignal issues the specified signal to the process running with the provided PID.
	// If the PID does not exist, no error will be returned.
	SendSignal(pid int, signal syscall.Signal) error
}

// ProcessInfo describes a running process
type ProcessInfo struct {
	Pid       int
	Ppid      int
	Cmdline   string
	StartTime time.Time
	RSS       uint64
	VMS       uint64
}
