package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// ZeroLogger implements Logger on top of zerolog
type ZeroLogger struct {
	zl   zerolog.Logger
	file *os.File
}

// NewFileLogger creates a logger that appends JSON lines to a daily file
// under logDir. When verbose is set, events are also written to stderr in
// console format and debug events are kept.
func NewFileLogger(logDir, appName string, verbose bool) (*ZeroLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", appName, time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var w io.Writer = file
	level := zerolog.InfoLevel
	if verbose {
		w = zerolog.MultiLevelWriter(file, consoleWriter())
		level = zerolog.DebugLevel
	}

	l := NewWriterLogger(w, level)
	l.file = file
	return l, nil
}

// NewConsoleLogger creates a human readable logger on stderr
func NewConsoleLogger(verbose bool) *ZeroLogger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return NewWriterLogger(consoleWriter(), level)
}

// NewWriterLogger creates a logger writing to w at the given level
func NewWriterLogger(w io.Writer, level zerolog.Level) *ZeroLogger {
	return &ZeroLogger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
}

// Info logs an info message
func (l *ZeroLogger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

// Warn logs a warning message
func (l *ZeroLogger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

// Error logs an error message
func (l *ZeroLogger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Debug logs a debug message
func (l *ZeroLogger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

// Close closes the logger file
func (l *ZeroLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// NullLogger implements Logger without any output
type NullLogger struct{}

// NewNullLogger creates a new null logger
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

// Info does nothing
func (l *NullLogger) Info(format string, v ...interface{}) {}

// Warn does nothing
func (l *NullLogger) Warn(format string, v ...interface{}) {}

// Error does nothing
func (l *NullLogger) Error(format string, v ...interface{}) {}

// Debug does nothing
func (l *NullLogger) Debug(format string, v ...interface{}) {}
