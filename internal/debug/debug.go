// Package debug provides development logging for the budgetchat CLI.
// The TUI owns the terminal, so logs go to a file; the logger is a
// process-wide singleton enabled by the --debug flag.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	logger  *zap.SugaredLogger
	logPath string
)

// Enable turns on debug logging to the specified file.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if logger != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	logger = l.Sugar()
	logPath = path
	logger.Infow("debug session started", "log_file", path)
	return nil
}

// Disable turns off debug logging and flushes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		return
	}
	_ = logger.Sync()
	logger = nil
}

// IsEnabled returns whether debug logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return logger != nil
}

// LogPath returns the path to the log file.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Log writes a formatted debug message if logging is enabled.
func Log(format string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		return
	}
	l.Debugf(format, args...)
}

// Event logs a component event.
func Event(component, eventType, details string) {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		return
	}
	l.Debugw(eventType, "component", component, "details", details)
}

// Error logs an error with context.
func Error(component string, err error, context string) {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		return
	}
	l.Errorw(context, "component", component, "error", err)
}
