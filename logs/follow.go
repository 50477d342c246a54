package logs

import (
	"os"
	"sync"

	"github.com/hpcloud/tail"
	"github.com/pkg/errors"
)

// LogFollower reads the vampire log, optionally following it as generations append
type LogFollower struct {
	path   string
	follow bool

	done     chan struct{}
	stopOnce sync.Once
}

// NewLogFollower creates a follower for the log file at path.
// If follow is false, the channel from Start closes at the end of the file.
func NewLogFollower(path string, follow bool) *LogFollower {
	return &LogFollower{
		path:   path,
		follow: follow,
		done:   make(chan struct{}),
	}
}

// Start begins reading the log. Lines that cannot be parsed are delivered
// with only Message set.
func (f *LogFollower) Start() (<-chan LogLine, error) {
	if !f.follow {
		if _, err := os.Stat(f.path); err != nil {
			return nil, errors.WithMessage(err, "no log to show")
		}
	}
	t, err := tail.TailFile(f.path, tail.Config{
		Follow:    f.follow,
		ReOpen:    f.follow,
		MustExist: !f.follow,
		Logger:    tail.DiscardingLogger,
		Location: &tail.SeekInfo{
			Offset: 0,
			Whence: 0,
		},
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	logs := make(chan LogLine)
	go f.doFollow(t, logs)
	return logs, nil
}

func (f *LogFollower) doFollow(t *tail.Tail, logs chan<- LogLine) {
	defer close(logs)
	defer t.Cleanup()
	for {
		select {
		case <-f.done:
			t.Stop()
			return
		case line, ok := <-t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				continue
			}
			lineData, _ := ParseLogLine(line.Text)
			select {
			case logs <- lineData:
			case <-f.done:
				t.Stop()
				return
			}
		}
	}
}

// Stop ends following. The channel from Start is closed once reading stops.
func (f *LogFollower) Stop() {
	f.stopOnce.Do(func() {
		close(f.done)
	})
}
