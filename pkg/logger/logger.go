package logger

import (
	"fmt"
	"io"

	log "github.com/charmbracelet/log"
)

// KomposLogger wraps charmbracelet's logger and optionally tees every record
// into a bounded ring buffer so the diagnostics path can show recent context.
type KomposLogger struct {
	*log.Logger
	ring *Ring
}

// New creates a KomposLogger writing to w.
func New(w io.Writer) *KomposLogger {
	return &KomposLogger{Logger: log.New(w)}
}

// Attach tees all subsequent records into ring. Passing nil detaches.
func (l *KomposLogger) Attach(ring *Ring) {
	l.ring = ring
}

// Ring returns the attached ring buffer, or nil.
func (l *KomposLogger) Ring() *Ring {
	return l.ring
}

func (l *KomposLogger) record(level log.Level, msg string, keyvals []any) {
	if l.ring == nil || l.GetLevel() > level {
		return
	}
	l.ring.Append(Record{Level: level, Message: msg, KeyVals: keyvals})
}

// Debug logs a debug message with optional key-value pairs.
func (l *KomposLogger) Debug(msg any, keyvals ...any) {
	l.record(log.DebugLevel, fmt.Sprint(msg), keyvals)
	l.Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func (l *KomposLogger) Info(msg any, keyvals ...any) {
	l.record(log.InfoLevel, fmt.Sprint(msg), keyvals)
	l.Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func (l *KomposLogger) Warn(msg any, keyvals ...any) {
	l.record(log.WarnLevel, fmt.Sprint(msg), keyvals)
	l.Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func (l *KomposLogger) Error(msg any, keyvals ...any) {
	l.record(log.ErrorLevel, fmt.Sprint(msg), keyvals)
	l.Logger.Error(msg, keyvals...)
}

// ParseLogLevel converts a .komposconfig log level name to a charm level.
// An empty string defaults to Info.
func ParseLogLevel(logLevel string) (log.Level, error) {
	switch logLevel {
	case "":
		return log.InfoLevel, nil
	case "Debug":
		return log.DebugLevel, nil
	case "Info":
		return log.InfoLevel, nil
	case "Warning":
		return log.WarnLevel, nil
	case "Off":
		return log.FatalLevel + 1, nil
	default:
		return 0, fmt.Errorf("invalid log level '%s'. Supported log levels are Debug, Info, Warning, Off", logLevel)
	}
}
