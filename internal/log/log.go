// Package log provides category-tagged structured logging for stepflow.
//
// The TUI owns stdout, so log output goes to a rotating file (or nowhere).
// Call Init once at startup; until then every call is discarded.
package log

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Category groups log lines by subsystem.
type Category string

const (
	CatStore  Category = "store"
	CatAI     Category = "ai"
	CatUI     Category = "ui"
	CatDB     Category = "db"
	CatConfig Category = "config"
	CatTrace  Category = "trace"
)

// Options configures the global logger.
type Options struct {
	// File is the log file path. Empty disables logging.
	File string
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
}

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	closer io.Closer
)

// Init configures the global logger. It returns a cleanup function that
// flushes and closes the log file.
func Init(opts Options) func() {
	if opts.File == "" {
		return func() {}
	}

	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	backups := opts.MaxBackups
	if backups <= 0 {
		backups = 3
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: backups,
		MaxAge:     28,
		Compress:   false,
	}
	SetOutput(file, ParseLevel(opts.Level))

	mu.Lock()
	closer = file
	mu.Unlock()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if closer != nil {
			_ = closer.Close()
			closer = nil
		}
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// SetOutput redirects logging to w at the given level. Used by Init and tests.
func SetOutput(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func with(cat Category, args []any) []any {
	return append([]any{"cat", string(cat)}, args...)
}

// Debug logs at debug level.
func Debug(cat Category, msg string, args ...any) {
	current().Debug(msg, with(cat, args)...)
}

// Info logs at info level.
func Info(cat Category, msg string, args ...any) {
	current().Info(msg, with(cat, args)...)
}

// Warn logs at warn level.
func Warn(cat Category, msg string, args ...any) {
	current().Warn(msg, with(cat, args)...)
}

// Error logs at error level.
func Error(cat Category, msg string, args ...any) {
	current().Error(msg, with(cat, args)...)
}

// ErrorErr logs err at error level under the "error" key.
func ErrorErr(cat Category, msg string, err error, args ...any) {
	errText := "<nil>"
	if err != nil {
		errText = err.Error()
	}
	current().Error(msg, with(cat, append([]any{"error", errText}, args...))...)
}
