package logger

import (
	"os"
	"strings"
	"sync/atomic"
)

var global atomic.Pointer[Logger]

func init() {
	l := NewDefault()
	Configure(l, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	global.Store(l)
}

// Configure applies level and format names to l. Unknown or empty names
// leave the current setting in place.
func Configure(l *Logger, level, format string) {
	if lvl, ok := ParseLevel(level); ok {
		l.SetLevel(lvl)
	}
	if f, ok := ParseFormat(format); ok {
		l.SetFormat(f)
	}
}

// ParseLevel parses a log level name
func ParseLevel(level string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	case "FATAL":
		return FATAL, true
	default:
		return INFO, false
	}
}

// ParseFormat parses a log format name
func ParseFormat(format string) (LogFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, true
	case "text":
		return TextFormat, true
	default:
		return JSONFormat, false
	}
}

// Global returns the process-wide logger
func Global() *Logger {
	return global.Load()
}

// SetGlobal replaces the process-wide logger
func SetGlobal(l *Logger) {
	global.Store(l)
}

// Component returns a global logger tagged with component
func Component(component string) *Logger {
	return Global().WithComponent(component)
}

// Debug logs a debug message using the global logger
func Debug(message string, fields ...Fields) {
	Global().log(DEBUG, message, firstFields(fields), nil)
}

// Info logs an info message using the global logger
func Info(message string, fields ...Fields) {
	Global().log(INFO, message, firstFields(fields), nil)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...Fields) {
	Global().log(WARN, message, firstFields(fields), nil)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...Fields) {
	Global().log(ERROR, message, firstFields(fields), err)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...Fields) {
	Global().log(FATAL, message, firstFields(fields), err)
}
