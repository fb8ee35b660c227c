/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Level represents the severity level of log messages
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a flag value to a Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Config holds the logger configuration
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
	// Output defaults to stderr so that stdout stays free for command output.
	Output io.Writer
}

// Logger writes leveled entries. A Logger created by With carries its fields
// into every entry.
type Logger struct {
	config Config
	logger *log.Logger
	fields []Field
}

var defaultLogger *Logger

// Initialize sets up the default logger
func Initialize(config Config) error {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	defaultLogger = &Logger{
		config: config,
		logger: log.New(out, "", 0),
	}
	return nil
}

// With returns a child of the default logger that adds fields to every
// entry. It returns nil when the logger is not initialized; all methods are
// safe on a nil Logger.
func With(fields ...Field) *Logger {
	if defaultLogger == nil {
		return nil
	}
	return defaultLogger.With(fields...)
}

// With returns a child logger carrying additional fields.
func (l *Logger) With(fields ...Field) *Logger {
	if l == nil {
		return nil
	}
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{config: l.config, logger: l.logger, fields: merged}
}

// Log writes a log message
func (l *Logger) Log(level Level, message string, fields ...Field) {
	l.log(level, 2, message, fields)
}

func (l *Logger) log(level Level, skip int, message string, fields []Field) {
	if l == nil || level < l.config.Level {
		return
	}

	entry := LogEntry{
		Time:      time.Now(),
		Level:     level.String(),
		Message:   message,
		Component: l.config.Component,
		Fields:    make(map[string]interface{}, len(l.fields)+len(fields)),
	}

	if level <= DebugLevel {
		if _, file, line, ok := runtime.Caller(skip); ok {
			entry.File = file
			entry.Line = line
		}
	}

	for _, field := range l.fields {
		entry.Fields[field.Key] = field.Value
	}
	for _, field := range fields {
		entry.Fields[field.Key] = field.Value
	}

	var output string
	if l.config.JSON {
		jsonBytes, _ := json.Marshal(entry)
		output = string(jsonBytes)
	} else {
		output = l.formatPretty(entry)
	}

	l.logger.Print(output)
}

var levelColors = map[string]string{
	"TRACE": "\033[37m",
	"DEBUG": "\033[36m",
	"INFO":  "\033[32m",
	"WARN":  "\033[33m",
	"ERROR": "\033[31m",
}

// formatPretty renders one line: time, level, component, message, then
// fields sorted by key.
func (l *Logger) formatPretty(entry LogEntry) string {
	var builder strings.Builder

	builder.WriteString(entry.Time.Format("2006-01-02 15:04:05"))

	level := entry.Level
	if color, ok := levelColors[level]; ok && l.config.UseColor {
		level = color + level + "\033[0m"
	}
	fmt.Fprintf(&builder, " [%s]", level)

	if entry.Component != "" {
		fmt.Fprintf(&builder, " %s:", entry.Component)
	}

	fmt.Fprintf(&builder, " %s", entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		builder.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				builder.WriteString(", ")
			}
			fmt.Fprintf(&builder, "%s=%v", k, entry.Fields[k])
		}
		builder.WriteString("}")
	}

	if entry.File != "" {
		fmt.Fprintf(&builder, " (%s:%d)", entry.File, entry.Line)
	}

	return builder.String()
}

// Field represents a structured field in a log entry
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Strings creates a field holding a list of strings
func Strings(key string, values []string) Field {
	return Field{Key: key, Value: append([]string(nil), values...)}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// LogEntry represents a log entry
type LogEntry struct {
	Time      time.Time              `json:"time"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	File      string                 `json:"file,omitempty"`
	Line      int                    `json:"line,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Trace logs at trace level.
func (l *Logger) Trace(message string, fields ...Field) { l.log(TraceLevel, 2, message, fields) }

// Debug logs at debug level.
func (l *Logger) Debug(message string, fields ...Field) { l.log(DebugLevel, 2, message, fields) }

// Info logs at info level.
func (l *Logger) Info(message string, fields ...Field) { l.log(InfoLevel, 2, message, fields) }

// Warn logs at warn level.
func (l *Logger) Warn(message string, fields ...Field) { l.log(WarnLevel, 2, message, fields) }

// Error logs at error level.
func (l *Logger) Error(message string, fields ...Field) { l.log(ErrorLevel, 2, message, fields) }

// Convenience functions for default logger
func Trace(message string, fields ...Field) {
	defaultLogger.log(TraceLevel, 2, message, fields)
}

func Debug(message string, fields ...Field) {
	defaultLogger.log(DebugLevel, 2, message, fields)
}

func Info(message string, fields ...Field) {
	if defaultLogger == nil {
		// Fallback to stderr if logger not initialized
		fmt.Fprintf(os.Stderr, "[INFO] lineage: %s\n", message)
		return
	}
	defaultLogger.log(InfoLevel, 2, message, fields)
}

func Warn(message string, fields ...Field) {
	defaultLogger.log(WarnLevel, 2, message, fields)
}

func Error(message string, fields ...Field) {
	defaultLogger.log(ErrorLevel, 2, message, fields)
}

// SetOutput sets the output writer for the logger
func SetOutput(w io.Writer) {
	if defaultLogger != nil {
		defaultLogger.logger.SetOutput(w)
	}
}
