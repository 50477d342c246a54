package logs

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// timeLayout matches log.Ldate|log.Ltime|log.Lmicroseconds
const timeLayout = "2006/01/02 15:04:05.000000"

// LogLine represents a line in the vampire log
type LogLine struct {
	// Command that wrote the line, e.g. "vampire serve"
	Command string
	Time    time.Time
	// Source file and line, from log.Lshortfile
	Source  string
	Message string
}

// ParseLogLine parses a line written by the standard logger as configured by
// common.ConfigureLogging.
func ParseLogLine(line string) (LogLine, error) {
	sep := strings.Index(line, " > ")
	if sep < 0 {
		return LogLine{Message: line}, errors.New("missing command prefix")
	}
	parsed := LogLine{Command: line[:sep]}
	rest := strings.TrimLeft(line[sep+3:], " ")

	if len(rest) < len(timeLayout)+1 {
		return LogLine{Message: line}, errors.New("line too short")
	}
	t, err := time.ParseInLocation(timeLayout, rest[:len(timeLayout)], time.Local)
	if err != nil {
		return LogLine{Message: line}, errors.WithStack(err)
	}
	parsed.Time = t
	rest = rest[len(timeLayout)+1:]

	colon := strings.Index(rest, ": ")
	if colon < 0 {
		return LogLine{Message: line}, fmt.Errorf("missing source in %q", line)
	}
	parsed.Source = rest[:colon]
	parsed.Message = rest[colon+2:]
	return parsed, nil
}
