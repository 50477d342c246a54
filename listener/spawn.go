package listener

import (
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Decision tells the serving loop whether to keep accepting
type Decision int

const (
	// Continue keeps the serving loop running
	Continue Decision = iota
	// Stop ends the serving loop
	Stop
)

// Spawner launches the successor generation.
// If inherit is not nil, the successor adopts it as its listening socket.
type Spawner interface {
	Spawn(inherit *os.File) (pid int, err error)
}

// ProcessSpawner launches a copy of the running program in its own process group
type ProcessSpawner struct {
	// Executable to run. exec.Command semantics apply for lookup.
	Executable string
	// Args passed after the executable name
	Args []string
	// Dir is the working directory of the successor. Empty means the current directory.
	Dir string
	// Env for the successor. If nil, the current environment is used.
	Env []string

	Stdout io.Writer
	Stderr io.Writer
}

var _ Spawner = &ProcessSpawner{}

// NewProcessSpawner creates a spawner that re-runs the current invocation.
// If executable is empty, os.Args[0] is used.
func NewProcessSpawner(executable string) *ProcessSpawner {
	if executable == "" {
		executable = os.Args[0]
	}
	return &ProcessSpawner{
		Executable: executable,
		Args:       append([]string(nil), os.Args[1:]...),
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

// Spawn starts the successor without waiting for it.
// Failures are returned as a *SpawnError.
func (s *ProcessSpawner) Spawn(inherit *os.File) (int, error) {
	cmd := exec.Command(s.Executable, s.Args...)
	cmd.Dir = s.Dir
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	cmd.SysProcAttr = detached()

	env := s.Env
	if env == nil {
		env = os.Environ()
	}
	cmd.Env = withoutListenerFD(env)
	if inherit != nil {
		cmd.ExtraFiles = []*os.File{inherit}
		cmd.Env = append(cmd.Env, ListenerFDEnv+"="+strconv.Itoa(inheritedFD))
	}

	if err := cmd.Start(); err != nil {
		return 0, &SpawnError{Executable: s.Executable, Err: err}
	}
	pid := cmd.Process.Pid
	// The successor outlives this generation, nobody waits on it here.
	_ = cmd.Process.Release()
	return pid, nil
}

func withoutListenerFD(env []string) []string {
	var out []string
	for _, e := range env {
		if strings.HasPrefix(e, ListenerFDEnv+"=") {
			continue
		}
		out = append(out, e)
	}
	return out
}
