// Package logger is the process-wide structured logger.
//
// Until Init is called every function is a no-op, so library packages can log
// unconditionally and tests stay quiet.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Options configures the console backend.
type Options struct {
	Debug  bool
	JSON   bool      // one JSON object per line
	Writer io.Writer // defaults to os.Stderr
}

var (
	mu        sync.RWMutex
	singleton *log.Logger
)

// Init installs the global logger.
func Init(opts Options) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	if opts.JSON {
		l.SetFormatter(log.JSONFormatter)
	}

	mu.Lock()
	singleton = l
	mu.Unlock()
}

func get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return singleton
}

// With returns a child logger carrying a prefix, or nil before Init.
func With(prefix string) *log.Logger {
	l := get()
	if l == nil {
		return nil
	}
	return l.WithPrefix(prefix)
}

// Debug writes a message at DEBUG level.
func Debug(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Debug(message, keyvals...)
	}
}

// Info writes a message at INFO level.
func Info(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Info(message, keyvals...)
	}
}

// Warn writes a message at WARN level.
func Warn(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Warn(message, keyvals...)
	}
}

// Error writes a message at ERROR level.
func Error(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Error(message, keyvals...)
	}
}
