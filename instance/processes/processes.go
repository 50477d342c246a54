package processes

import (
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/theothertomelliott/gopsutil-nocgo/net"
	"github.com/theothertomelliott/gopsutil-nocgo/process"
	"github.com/yext/vampire/instance"
)

type Processes struct {
}

var _ instance.Processes = &Processes{}

func (p *Processes) ListeningPids(port int) ([]int, error) {
	connections, err := net.Connections("tcp")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var pidSet = make(map[int]struct{})
	for _, connection := range connections {
		if connection.Status == "LISTEN" && int(connection.Laddr.Port) == port && connection.Pid != 0 {
			pidSet[int(connection.Pid)] = struct{}{}
		}
	}

	var pids []int
	for pid := range pidSet {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids, nil
}

func (p *Processes) SendSignal(pid int, signal syscall.Signal) error {
	if exists, err := process.PidExists(int32(pid)); !exists || err != nil {
		return errors.WithStack(err)
	}
	pr, err := process.NewProcess(int32(pid))
	if err != nil {
		return errors.WithStack(err)
	}
	err = pr.SendSignal(signal)
	return errors.WithStack(err)
}

func (p *Processes) PidExists(pid int) (bool, error) {
	exists, err := process.PidExists(int32(pid))
	return exists, errors.WithStack(err)
}

func (p *Processes) PidCommandMatches(pid int, value string) (bool, error) {
	if exists, err := process.PidExists(int32(pid)); !exists || err != nil {
		return false, errors.WithStack(err)
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false, errors.WithStack(err)
	}
	cmdline, err := proc.Cmdline()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return strings.Contains(cmdline, value), nil
}

func (p *Processes) Info(pid int) (instance.ProcessInfo, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return instance.ProcessInfo{}, errors.WithStack(err)
	}
	info := instance.ProcessInfo{Pid: pid}

	info.Cmdline, err = proc.Cmdline()
	if err != nil {
		return instance.ProcessInfo{}, errors.WithMessage(err, "retrieving command line")
	}
	ppid, err := proc.Ppid()
	if err != nil {
		return instance.ProcessInfo{}, errors.WithMessage(err, "retrieving parent pid")
	}
	info.Ppid = int(ppid)

	created, err := proc.CreateTime()
	if err != nil {
		return instance.ProcessInfo{}, errors.WithMessage(err, "retrieving start time")
	}
	info.StartTime = time.Unix(0, created*int64(time.Millisecond))

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		return instance.ProcessInfo{}, errors.WithMessage(err, "retrieving memory info")
	}
	info.RSS = memoryInfo.RSS
	info.VMS = memoryInfo.VMS
	return info, nil
}
