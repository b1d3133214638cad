// Package log wraps logrus behind the small logging surface the rest of
// relocd uses. The default logger writes human-readable text to stderr;
// tests swap the output with WithOutput.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var std = NewLogger()

// Logger is a thin wrapper around a logrus logger.
type Logger struct {
	*logrus.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput directs log output to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.SetOutput(w)
	}
}

// NewLogger creates a logger with the standard relocd formatting.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	base.SetLevel(logrus.InfoLevel)

	l := &Logger{Logger: base}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetDebug toggles debug-level logging on the package logger.
func SetDebug(debug bool) {
	if debug {
		std.SetLevel(logrus.DebugLevel)
	} else {
		std.SetLevel(logrus.InfoLevel)
	}
}

// SetLevel sets the package logger level from a config string
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	std.SetLevel(parsed)
}

// SetOutput directs the package logger output to w.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Field is a single structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LogWithFields returns an entry carrying the given fields.
func LogWithFields(fields ...Field) *logrus.Entry {
	logrusFields := make(logrus.Fields, len(fields))
	for _, f := range fields {
		logrusFields[f.Key] = f.Value
	}
	return std.WithFields(logrusFields)
}

// Info logs a message at info level.
func Info(args ...interface{}) {
	std.Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	std.Infof(format, args...)
}

// Debug logs a message at debug level.
func Debug(args ...interface{}) {
	std.Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

// Warn logs a message at warn level.
func Warn(args ...interface{}) {
	std.Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

// Error logs a message at error level.
func Error(args ...interface{}) {
	std.Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) {
	std.Errorf(format, args...)
}
