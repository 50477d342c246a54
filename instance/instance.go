// Package instance locates and controls the live generation of a vampire chain.
// Nothing is persisted between generations, so the chain is rediscovered from
// the sockets listening on its port.
package instance

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/yext/vampire/common"
)

// Instance is a live generation holding the listening port
type Instance struct {
	ProcessInfo
	// Port the generation is listening on
	Port int
}

// Find returns the generations listening on port whose command line contains match.
// Normally there is at most one, but more are reported if found mid-handoff.
func Find(processes Processes, port int, match string) ([]Instance, error) {
	pids, err := processes.ListeningPids(port)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var instances []Instance
	for _, pid := range pids {
		matches, err := processes.PidCommandMatches(pid, match)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !matches {
			continue
		}
		info, err := processes.Info(pid)
		if err != nil {
			return nil, errors.WithMessage(err, "reading process info")
		}
		instances = append(instances, Instance{
			ProcessInfo: info,
			Port:        port,
		})
	}
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].StartTime.Before(instances[j].StartTime)
	})
	return instances, nil
}

func printf(logger common.Logger, format string, v ...interface{}) {
	common.MaskLogger(logger).Printf(format, v...)
}
