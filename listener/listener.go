// Package listener implements the respawning listener: a generation binds
// one socket, serves exactly one connection, launches its successor and exits.
package listener

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// ListenerFDEnv marks the descriptor of a listening socket inherited from the
// previous generation.
const ListenerFDEnv = "VAMPIRE_LISTENER_FD"

// inheritedFD is the descriptor number of the first entry in exec.Cmd.ExtraFiles
const inheritedFD = 3

// Listener owns the listening socket for a single generation
type Listener struct {
	address   string
	file      *os.File
	ln        net.Listener
	inherited bool
	closed    bool
}

// Bind acquires a listening socket on address and port with the given backlog.
// Failures are returned as a *BindError.
func Bind(address string, port int, backlog int) (*Listener, error) {
	hostPort := net.JoinHostPort(address, strconv.Itoa(port))
	file, err := openSocket(address, port, backlog)
	if err != nil {
		return nil, &BindError{Address: hostPort, Err: errors.Cause(err)}
	}
	ln, err := net.FileListener(file)
	if err != nil {
		file.Close()
		return nil, &BindError{Address: hostPort, Err: err}
	}
	return &Listener{
		address: ln.Addr().String(),
		file:    file,
		ln:      ln,
	}, nil
}

// Inherited adopts a listening socket passed down by the previous generation.
// The boolean result is false if no socket was passed.
// The marker is removed from the environment once read.
func Inherited() (*Listener, bool, error) {
	value, ok := os.LookupEnv(ListenerFDEnv)
	if !ok {
		return nil, false, nil
	}
	os.Unsetenv(ListenerFDEnv)

	fd, err := strconv.Atoi(value)
	if err != nil || fd < 0 {
		return nil, true, &BindError{Address: "inherited", Err: fmt.Errorf("invalid %v: %q", ListenerFDEnv, value)}
	}
	closeOnExec(fd)
	file := os.NewFile(uintptr(fd), "vampire-inherited-listener")
	ln, err := net.FileListener(file)
	if err != nil {
		file.Close()
		return nil, true, &BindError{Address: "inherited fd " + value, Err: err}
	}
	return &Listener{
		address:   ln.Addr().String(),
		file:      file,
		ln:        ln,
		inherited: true,
	}, true, nil
}

// Listen adopts an inherited socket if one was passed, and binds a new one otherwise.
func Listen(address string, port int, backlog int) (*Listener, error) {
	l, ok, err := Inherited()
	if ok {
		return l, err
	}
	return Bind(address, port, backlog)
}

// AcceptOne blocks until a single client connects.
// Failures are returned as an *AcceptError.
func (l *Listener) AcceptOne() (net.Conn, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, &AcceptError{Address: l.address, Err: err}
	}
	return conn, nil
}

// Addr returns the address the socket is bound to
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Inherited returns true if this socket was passed down by a previous generation
func (l *Listener) Inherited() bool {
	return l.inherited
}

// File returns the descriptor backing the socket, for passing to a successor
func (l *Listener) File() *os.File {
	return l.file
}

// Closed returns true once Close has been called
func (l *Listener) Closed() bool {
	return l.closed
}

// Close releases the socket. Closing more than once is a no-op.
func (l *Listener) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	lnErr := l.ln.Close()
	fileErr := l.file.Close()
	if lnErr != nil {
		return errors.WithStack(lnErr)
	}
	return errors.WithStack(fileErr)
}
