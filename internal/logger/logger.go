// Package logger provides structured JSON logging for wca-notifier.
//
// Every entry is a single JSON object written by log/slog's JSON handler. Callers
// attach arbitrary structured fields:
//
//	logger.Info("subscriber processed", logger.Fields{
//	    "email":  sub.Email,
//	    "events": len(events),
//	})
//
//	logger.Error("discovery failed", logger.Fields{"email": sub.Email}, err)
//
// The scraping and matching packages never log; they return errors and leave
// reporting to the runner, the CLI and the admin API.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger provides structured logging
type Logger struct {
	minLevel Level
	handler  *slog.Logger
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New(LevelInfo, os.Stdout))
}

// New creates a logger writing JSON lines to output. Messages below level are discarded.
func New(level Level, output io.Writer) *Logger {
	level = normalize(level)
	return &Logger{
		minLevel: level,
		handler: slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{
			Level: toSlog(level),
		})),
	}
}

// ParseLevel maps a config string such as "debug" or "WARN" to a Level.
// Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	return normalize(Level(strings.ToUpper(strings.TrimSpace(s))))
}

// SetDefault replaces the logger used by the package-level functions.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// Default returns the logger used by the package-level functions.
func Default() *Logger {
	return defaultLogger.Load()
}

func normalize(level Level) Level {
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return level
	default:
		return LevelInfo
	}
}

func toSlog(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// log writes a structured log entry
func (l *Logger) log(level Level, message string, fields Fields, err error) {
	lvl := toSlog(level)
	ctx := context.Background()
	if !l.handler.Enabled(ctx, lvl) {
		return
	}

	attrs := make([]slog.Attr, 0, len(fields)+1)
	// Stable field order keeps lines diffable.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.handler.LogAttrs(ctx, lvl, message, attrs...)
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Level returns the minimum level this logger emits.
func (l *Logger) Level() Level {
	return l.minLevel
}

// Slog exposes the underlying slog.Logger for libraries that take one.
func (l *Logger) Slog() *slog.Logger {
	return l.handler
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	Default().Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	Default().Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	Default().Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	Default().Error(message, fields, err)
}
