/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package common provides the logging facility shared by every pdflayout
// package. It follows the low-ceremony Logger interface style used
// throughout the PDF libraries in the Go ecosystem: a tiny interface, a
// DummyLogger default, and a console implementation for callers who want
// stdout output without pulling in a logging framework.
package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Logger is the interface used for logging across pdflayout.
type Logger interface {
	Error(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Notice(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Trace(format string, args ...interface{})
	IsLogLevel(level LogLevel) bool
}

// LogLevel is the verbosity level for logging. Lower is more important.
type LogLevel int

// Log level enum: error = 0 ... trace = 5.
const (
	LogLevelTrace   LogLevel = 5
	LogLevelDebug   LogLevel = 4
	LogLevelInfo    LogLevel = 3
	LogLevelNotice  LogLevel = 2
	LogLevelWarning LogLevel = 1
	LogLevelError   LogLevel = 0
)

// DummyLogger discards everything. It is the default so importing
// pdflayout never prints unless the caller opts in.
type DummyLogger struct{}

func (DummyLogger) Error(format string, args ...interface{})   {}
func (DummyLogger) Warning(format string, args ...interface{}) {}
func (DummyLogger) Notice(format string, args ...interface{})  {}
func (DummyLogger) Info(format string, args ...interface{})    {}
func (DummyLogger) Debug(format string, args ...interface{})   {}
func (DummyLogger) Trace(format string, args ...interface{})   {}

// IsLogLevel always reports true for DummyLogger so callers don't skip
// building a message that would be discarded anyway; it costs nothing here.
func (DummyLogger) IsLogLevel(level LogLevel) bool { return true }

// ConsoleLogger writes to os.Stdout at or below LogLevel.
type ConsoleLogger struct {
	LogLevel LogLevel
}

// NewConsoleLogger returns a ConsoleLogger at the given verbosity.
func NewConsoleLogger(logLevel LogLevel) *ConsoleLogger {
	return &ConsoleLogger{LogLevel: logLevel}
}

func (l ConsoleLogger) IsLogLevel(level LogLevel) bool { return l.LogLevel >= level }

func (l ConsoleLogger) Error(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelError {
		logToWriter(os.Stdout, "[ERROR] ", format, args...)
	}
}

func (l ConsoleLogger) Warning(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelWarning {
		logToWriter(os.Stdout, "[WARNING] ", format, args...)
	}
}

func (l ConsoleLogger) Notice(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelNotice {
		logToWriter(os.Stdout, "[NOTICE] ", format, args...)
	}
}

func (l ConsoleLogger) Info(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelInfo {
		logToWriter(os.Stdout, "[INFO] ", format, args...)
	}
}

func (l ConsoleLogger) Debug(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelDebug {
		logToWriter(os.Stdout, "[DEBUG] ", format, args...)
	}
}

func (l ConsoleLogger) Trace(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelTrace {
		logToWriter(os.Stdout, "[TRACE] ", format, args...)
	}
}

// WriterLogger is a ConsoleLogger that writes to an arbitrary io.Writer,
// for callers who want to capture pdflayout's diagnostics into a file or
// test buffer instead of stdout.
type WriterLogger struct {
	LogLevel LogLevel
	Output   io.Writer
}

// NewWriterLogger returns a WriterLogger at the given verbosity.
func NewWriterLogger(logLevel LogLevel, w io.Writer) *WriterLogger {
	return &WriterLogger{LogLevel: logLevel, Output: w}
}

func (l WriterLogger) IsLogLevel(level LogLevel) bool { return l.LogLevel >= level }

func (l WriterLogger) Error(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelError {
		logToWriter(l.Output, "[ERROR] ", format, args...)
	}
}

func (l WriterLogger) Warning(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelWarning {
		logToWriter(l.Output, "[WARNING] ", format, args...)
	}
}

func (l WriterLogger) Notice(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelNotice {
		logToWriter(l.Output, "[NOTICE] ", format, args...)
	}
}

func (l WriterLogger) Info(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelInfo {
		logToWriter(l.Output, "[INFO] ", format, args...)
	}
}

func (l WriterLogger) Debug(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelDebug {
		logToWriter(l.Output, "[DEBUG] ", format, args...)
	}
}

func (l WriterLogger) Trace(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelTrace {
		logToWriter(l.Output, "[TRACE] ", format, args...)
	}
}

// logToWriter writes a prefixed, timestamped, caller-annotated line to w.
func logToWriter(w io.Writer, prefix, format string, args ...interface{}) {
	_, file, line, ok := runtime.Caller(3)
	source := "???"
	if ok {
		source = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	ts := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(w, "%s%s %s - %s\n", prefix, ts, source, msg)
}

// Log is the package-level logger used by every pdflayout package. Install
// your own with SetLogger; the default discards everything.
var Log Logger = DummyLogger{}

// SetLogger installs logger as the package-level logger used by pdflayout.
func SetLogger(logger Logger) {
	Log = logger
}
