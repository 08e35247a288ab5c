// internal/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	defaultLogger *slog.Logger
	logLevel      *slog.LevelVar
	initOnce      sync.Once
)

// Init initializes the logger package with a level and output writer.
func Init(level slog.Level, output io.Writer) {
	initOnce.Do(func() {
		if output == nil {
			output = io.Discard
		}
		logLevel = new(slog.LevelVar)
		logLevel.Set(level)
		defaultLogger = slog.New(newBaseHandler(output, logLevel))
	})
}

// InitWithConfig initializes the logger from a Config, wrapping the base
// handler with tag/package/file filtering. The returned closer owns the
// log file, if one was opened; callers should defer it.
func InitWithConfig(cfg Config) (func(), error) {
	closer := func() {}
	var initErr error

	initOnce.Do(func() {
		cfg.process()

		output := io.Writer(os.Stderr)
		if cfg.LogFilePath != "" && cfg.LogFilePath != "-" {
			f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				initErr = fmt.Errorf("failed to open log file '%s': %w", cfg.LogFilePath, err)
				output = io.Discard
			} else {
				output = f
				closer = func() { f.Close() }
			}
		}

		logLevel = new(slog.LevelVar)
		logLevel.Set(cfg.Level())

		base := newBaseHandler(output, logLevel)
		defaultLogger = slog.New(newFilteringHandler(base, &cfg))
	})

	return closer, initErr
}

// newBaseHandler builds the text handler shared by both init paths.
func newBaseHandler(output io.Writer, level slog.Leveler) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok && source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}
	return slog.NewTextHandler(output, &opts)
}

// ensureInitialized provides a safe default if Init wasn't called.
func ensureInitialized() {
	initOnce.Do(func() {
		logLevel = new(slog.LevelVar)
		logLevel.Set(slog.LevelInfo)
		defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: logLevel}))
	})
}

// logAtLevel creates and logs a record at the specified level, capturing the
// correct caller source and attaching any extra attributes.
func logAtLevel(level slog.Level, attrs []slog.Attr, format string, args ...interface{}) {
	ensureInitialized()
	if !defaultLogger.Enabled(context.Background(), level) {
		return
	}

	// Skip 3 frames: runtime.Callers, logAtLevel, and the wrapper
	// (Debugf, DebugTagf, ...) so source info points at the call site.
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	r.AddAttrs(attrs...)

	_ = defaultLogger.Handler().Handle(context.Background(), r)
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, nil, format, args...)
}

// Infof logs an info message using Printf-style formatting.
func Infof(format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, nil, format, args...)
}

// Warnf logs a warning message using Printf-style formatting.
func Warnf(format string, args ...interface{}) {
	logAtLevel(slog.LevelWarn, nil, format, args...)
}

// Errorf logs an error message using Printf-style formatting.
func Errorf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, nil, format, args...)
}

// DebugTagf logs a debug message carrying a filterable tag attribute.
func DebugTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, []slog.Attr{slog.String(tagKey, tag)}, format, args...)
}

// InfoTagf logs an info message carrying a filterable tag attribute.
func InfoTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, []slog.Attr{slog.String(tagKey, tag)}, format, args...)
}

// Fatalf logs an error message then exits.
func Fatalf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, nil, format, args...)
	os.Exit(1)
}

// Get retrieves the configured logger instance.
func Get() *slog.Logger {
	ensureInitialized()
	return defaultLogger
}
