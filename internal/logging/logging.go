// Package logging provides leveled console logging and per-session JSONL journals.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures the console logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the console defaults: warnings and up, text format, no timestamps.
func DefaultOptions() Options {
	return Options{
		Level:     log.WarnLevel,
		Formatter: log.TextFormatter,
		Prefix:    "todolist",
	}
}

// ParseLevel parses a string log level. Unknown values map to warn.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// ParseFormatter parses a formatter name (text, json, logfmt).
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Logger fans every record out to a set of charmbracelet loggers.
// A nil *Logger discards everything.
type Logger struct {
	sinks []*log.Logger
}

// New creates a Logger writing to w (stderr when nil) with the given options.
func New(w io.Writer, opts Options) *Logger {
	if w == nil {
		w = os.Stderr
	}
	console := log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
	return &Logger{sinks: []*log.Logger{console}}
}

// NewFromConfig builds a console logger from string settings as found in config files.
func NewFromConfig(w io.Writer, level, format string, timestamps bool) *Logger {
	opts := DefaultOptions()
	opts.Level = ParseLevel(level)
	opts.Formatter = ParseFormatter(format)
	opts.ReportTimestamp = timestamps
	return New(w, opts)
}

// NewTestLogger logs everything to w in plain text, for assertions in tests.
func NewTestLogger(w io.Writer) *Logger {
	return New(w, Options{Level: log.DebugLevel, Formatter: log.TextFormatter})
}

// Discard returns a logger with no sinks.
func Discard() *Logger {
	return &Logger{}
}

// AddSink attaches another logger. Records are written to every sink.
func (l *Logger) AddSink(sink *log.Logger) {
	if l == nil || sink == nil {
		return
	}
	l.sinks = append(l.sinks, sink)
}

// With returns a logger whose sinks all carry the given key/value pairs.
func (l *Logger) With(keyvals ...any) *Logger {
	if l == nil {
		return nil
	}
	out := &Logger{sinks: make([]*log.Logger, 0, len(l.sinks))}
	for _, s := range l.sinks {
		out.sinks = append(out.sinks, s.With(keyvals...))
	}
	return out
}

func (l *Logger) Debug(msg any, keyvals ...any) {
	if l == nil {
		return
	}
	for _, s := range l.sinks {
		s.Debug(msg, keyvals...)
	}
}

func (l *Logger) Info(msg any, keyvals ...any) {
	if l == nil {
		return
	}
	for _, s := range l.sinks {
		s.Info(msg, keyvals...)
	}
}

func (l *Logger) Warn(msg any, keyvals ...any) {
	if l == nil {
		return
	}
	for _, s := range l.sinks {
		s.Warn(msg, keyvals...)
	}
}

func (l *Logger) Error(msg any, keyvals ...any) {
	if l == nil {
		return
	}
	for _, s := range l.sinks {
		s.Error(msg, keyvals...)
	}
}
