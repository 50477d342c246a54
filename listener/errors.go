package listener

import "fmt"

// BindError is returned when the listening socket cannot be acquired,
// for example because the address is in use or permission is denied.
type BindError struct {
	Address string
	Err     error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("could not bind %v: %v", e.Address, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// AcceptError is returned when accepting a connection fails at the OS level.
type AcceptError struct {
	Address string
	Err     error
}

func (e *AcceptError) Error() string {
	return fmt.Sprintf("could not accept on %v: %v", e.Address, e.Err)
}

func (e *AcceptError) Unwrap() error { return e.Err }

// SpawnError is returned when the successor process cannot be launched.
type SpawnError struct {
	Executable string
	Err        error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("could not spawn %v: %v", e.Executable, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
