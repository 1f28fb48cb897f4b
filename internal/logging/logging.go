// Package logging provides a leveled logger shared by every component.
package logging

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) charm() charmlog.Level {
	switch l {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelError:
		return charmlog.ErrorLevel
	case LevelInfo:
		return charmlog.InfoLevel
	default:
		// Above every level the backend knows about.
		return charmlog.FatalLevel + 1
	}
}

// ParseLevel parses a log level string. Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects the line encoding.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
)

// ParseFormat parses a format name, defaulting to text.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON
	case FormatLogfmt:
		return FormatLogfmt
	default:
		return FormatText
	}
}

func (f Format) formatter() charmlog.Formatter {
	switch f {
	case FormatJSON:
		return charmlog.JSONFormatter
	case FormatLogfmt:
		return charmlog.LogfmtFormatter
	default:
		return charmlog.TextFormatter
	}
}

// Logger is a leveled logger with printf-style helpers and optional
// key/value context.
type Logger struct {
	l *charmlog.Logger
}

// New creates a logger writing text lines to stderr.
func New(level Level) *Logger {
	return NewWithWriter(os.Stderr, level, FormatText)
}

// NewWithWriter creates a logger writing to w in the given format.
func NewWithWriter(w io.Writer, level Level, format Format) *Logger {
	l := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level.charm(),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Formatter:       format.formatter(),
	})
	return &Logger{l: l}
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.l.SetOutput(w)
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.l.SetLevel(level.charm())
}

// SetFormat switches the line encoding.
func (l *Logger) SetFormat(f Format) {
	l.l.SetFormatter(f.formatter())
}

// With returns a child logger that prefixes every line with keyvals.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{l: l.l.With(keyvals...)}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.l.Debugf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.l.Infof(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.l.Warnf(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.l.Errorf(format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return NewWithWriter(io.Discard, LevelError+1, FormatText)
}
