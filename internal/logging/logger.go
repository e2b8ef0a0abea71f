// Package logging provides the file-backed structured logger.
//
// The terminal belongs to the TUI, so log output always goes to a file.
// Until Init is called every helper writes to io.Discard.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu sync.Mutex

	// Logger is the global logger instance
	Logger = log.New(io.Discard)

	logFile *os.File
)

// Options controls logger initialization
type Options struct {
	Path  string // log file path; empty keeps output discarded
	Level string // debug, info, warn, error
}

// Init opens the log file and installs the global logger
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	if opts.Path == "" {
		Logger = log.NewWithOptions(io.Discard, log.Options{Level: level})
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = f

	Logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
	return nil
}

// SetOutput redirects the global logger, mostly for tests
func SetOutput(w io.Writer, level log.Level) {
	mu.Lock()
	defer mu.Unlock()
	Logger = log.NewWithOptions(w, log.Options{Level: level})
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		Logger.Info("moviesearch shutting down")
		logFile.Close()
		logFile = nil
	}
	Logger = log.New(io.Discard)
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return Logger
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	current().Info(msg, keyvals...)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	current().Debug(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	current().Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	current().Error(msg, keyvals...)
}

// WithPrefix returns a logger with a prefix.
// The returned logger is bound to the global logger at call time.
func WithPrefix(prefix string) *log.Logger {
	return current().WithPrefix(prefix)
}
