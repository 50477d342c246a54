package listener

import (
	"os"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/yext/vampire/common"
)

// State is the position of a generation in its lifecycle
type State int

const (
	// StateServing is the state of a generation holding its socket
	StateServing State = iota
	// StateSpawned means the successor was launched and this generation is exiting
	StateSpawned
	// StateSpawnFailed means no successor could be launched and serving has ended
	StateSpawnFailed
)

func (s State) String() string {
	switch s {
	case StateServing:
		return "SERVING"
	case StateSpawned:
		return "SPAWNED"
	case StateSpawnFailed:
		return "SPAWN FAILED"
	}
	return "UNKNOWN"
}

// Generation serves a single connection on a listener, then hands off to a successor
type Generation struct {
	Listener  *Listener
	Responder *Responder
	Spawner   Spawner

	// InheritListener passes the socket to the successor rather than leaving it to rebind
	InheritListener bool

	Logger common.Logger

	// Exit terminates the process once the successor is running.
	// Defaults to os.Exit.
	Exit func(code int)

	state     State
	successor int
}

// NewGeneration creates a Generation for l using the default exit behavior
func NewGeneration(l *Listener, responder *Responder, spawner Spawner, logger common.Logger) *Generation {
	return &Generation{
		Listener:  l,
		Responder: responder,
		Spawner:   spawner,
		Logger:    logger,
		Exit:      os.Exit,
	}
}

// State returns the current lifecycle state
func (g *Generation) State() State {
	return g.state
}

// Successor returns the pid of the launched successor, or 0 if none was launched
func (g *Generation) Successor() int {
	return g.successor
}

func (g *Generation) printf(format string, v ...interface{}) {
	common.MaskLogger(g.Logger).Printf(format, v...)
}

// Serve accepts one connection, responds to it, and respawns.
// On success the process exits inside Serve. Serve returns once the
// successor could not be spawned, with the listener already closed, or
// with an *AcceptError if accepting failed.
func (g *Generation) Serve() (State, error) {
	g.state = StateServing
	g.printf("pid %d serving on %v (inherited: %v)\n", os.Getpid(), g.Listener.Addr(), g.Listener.Inherited())

	for decision := Continue; decision == Continue; {
		conn, err := g.Listener.AcceptOne()
		if err != nil {
			g.Listener.Close()
			return g.state, errors.WithStack(err)
		}
		id := uuid.NewV4().String()
		g.printf("[%v] accepted connection from %v\n", id, conn.RemoteAddr())

		payload, n, err := g.Responder.Respond(conn)
		if err != nil {
			g.printf("[%v] %v\n", id, err)
		} else if payload.Fallback {
			g.printf("[%v] read %d request bytes, served fallback document (%v)\n", id, n, payload.ReadErr)
		} else {
			g.printf("[%v] read %d request bytes, served %v (%d bytes)\n", id, n, g.Responder.ContentFile, len(payload.Body))
		}
		if err := conn.Close(); err != nil {
			g.printf("[%v] closing connection: %v\n", id, err)
		}

		decision = g.respawnAndExit(id)
	}
	return g.state, nil
}

// respawnAndExit launches the successor, closes the listener and exits.
// It only returns if spawning failed, or if Exit returns.
func (g *Generation) respawnAndExit(id string) Decision {
	var inherit *os.File
	if g.InheritListener {
		inherit = g.Listener.File()
	}

	pid, err := g.Spawner.Spawn(inherit)
	if err != nil {
		g.state = StateSpawnFailed
		g.printf("[%v] %v\n", id, err)
		if closeErr := g.Listener.Close(); closeErr != nil {
			g.printf("[%v] closing listener: %v\n", id, closeErr)
		}
		return Stop
	}

	g.state = StateSpawned
	g.successor = pid
	g.printf("[%v] spawned successor pid %d, exiting\n", id, pid)
	if closeErr := g.Listener.Close(); closeErr != nil {
		g.printf("[%v] closing listener: %v\n", id, closeErr)
	}
	exit := g.Exit
	if exit == nil {
		exit = os.Exit
	}
	exit(0)
	return Stop
}
