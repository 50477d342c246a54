package common

import (
	"io"
	"log"
	"path/filepath"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Logger provides a simple logging interface with minimal print function(s)
type Logger interface {
	Printf(format string, v ...interface{})
}

// NullLogger implements the Logger interface with no-op functions
type NullLogger struct{}

var _ Logger = NullLogger{}

// Printf is a no-op print function
func (n NullLogger) Printf(_ string, _ ...interface{}) {}

// MaskLogger takes a Logger and returns the Logger if not nil, or a NullLogger
// if it is nil.
func MaskLogger(logger Logger) Logger {
	if logger != nil {
		return logger
	}
	return NullLogger{}
}

// LogFileName is the name of the log file shared by every generation.
const LogFileName = "vampire.log"

// LogOutput returns the rotating log file writer for the provided log directory.
func LogOutput(logDir string) io.Writer {
	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    50, // megabytes
		MaxBackups: 30,
		MaxAge:     1, //days
	}
}

// ConfigureLogging points the standard logger at out, with the prefix and flags
// used by every vampire command.
func ConfigureLogging(out io.Writer, prefix string) {
	log.SetOutput(out)
	log.SetPrefix(prefix)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
}
