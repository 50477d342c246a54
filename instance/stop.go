package instance

import (
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/yext/vampire/common"
)

// StopConfig controls how a chain is stopped
type StopConfig struct {
	// Signal sent to each generation
	Signal syscall.Signal
	// Attempts is the number of times to look for a live generation.
	// A successor spawned while stopping is picked up by a later attempt.
	Attempts int
	// Interval between attempts
	Interval time.Duration
}

// DefaultStopConfig terminates the chain with SIGTERM, checking for
// successors for one second.
var DefaultStopConfig = StopConfig{
	Signal:   syscall.SIGTERM,
	Attempts: 5,
	Interval: 200 * time.Millisecond,
}

// Stop signals every generation listening on port whose command contains match.
// Returns the pids that were signalled.
func Stop(processes Processes, port int, match string, cfg StopConfig, logger common.Logger) ([]int, error) {
	var stopped []int
	signalled := make(map[int]struct{})
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(cfg.Interval)
		}
		instances, err := Find(processes, port, match)
		if err != nil {
			return stopped, errors.WithStack(err)
		}
		if len(instances) == 0 && attempt > 0 {
			break
		}
		for _, instance := range instances {
			if _, done := signalled[instance.Pid]; done {
				continue
			}
			exists, err := processes.PidExists(instance.Pid)
			if err != nil {
				return stopped, errors.WithStack(err)
			}
			if !exists {
				printf(logger, "pid %d exited before it could be stopped\n", instance.Pid)
				continue
			}
			printf(logger, "sending %v to pid %d\n", cfg.Signal, instance.Pid)
			if err := processes.SendSignal(instance.Pid, cfg.Signal); err != nil {
				return stopped, errors.WithMessage(err, "stopping generation")
			}
			signalled[instance.Pid] = struct{}{}
			stopped = append(stopped, instance.Pid)
		}
	}
	return stopped, nil
}
