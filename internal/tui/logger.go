package tui

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelErr
)

// String returns the tag written in front of messages of this level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelErr:
		return "ERR"
	default:
		return "?"
	}
}

var debugEnabled atomic.Bool

// LogDebug logs a debug message. Dropped unless debug logging is on.
func LogDebug(format string, args ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	logMessage(LevelDebug, format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	logMessage(LevelInfo, format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	logMessage(LevelWarn, format, args...)
}

// LogErr logs an error message
func LogErr(format string, args ...interface{}) {
	logMessage(LevelErr, format, args...)
}

func logMessage(level LogLevel, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	// Clean up the message (remove newlines at end)
	msg = strings.TrimRight(msg, "\n\r")
	log.Printf("[%s] %s", level, msg)
}

// InitLogging routes the standard logger to dir/pappardelle.log, since the
// TUI owns the terminal. If the file cannot be opened, logs are discarded.
// Call this early in main and close the returned file on exit.
func InitLogging(dir string, debug bool) io.Closer {
	debugEnabled.Store(debug)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return io.NopCloser(nil)
	}
	f, err := os.OpenFile(filepath.Join(dir, "pappardelle.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return io.NopCloser(nil)
	}
	log.SetOutput(f)
	return f
}
