package common

import (
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return "info"
	}
}

// ToSlogLevel converts LogLevel to slog.Level
func (l LogLevel) ToSlogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// ParseLogLevel parses a level name; unknown values fall back to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// Logger provides a centralized logging interface for qexport
type Logger struct {
	*slog.Logger
	level LogLevel
}

// NewLogger creates a new structured text logger with the specified level
func NewLogger(level LogLevel) *Logger {
	opts := &slog.HandlerOptions{
		Level: level.ToSlogLevel(),
	}

	handler := NewMaskingHandler(slog.NewTextHandler(os.Stderr, opts), GetGlobalMasker())
	return &Logger{
		Logger: slog.New(handler),
		level:  level,
	}
}

// NewJSONLogger creates a structured logger with JSON output
func NewJSONLogger(level LogLevel) *Logger {
	opts := &slog.HandlerOptions{
		Level: level.ToSlogLevel(),
	}

	handler := NewMaskingHandler(slog.NewJSONHandler(os.Stderr, opts), GetGlobalMasker())
	return &Logger{
		Logger: slog.New(handler),
		level:  level,
	}
}

// Configure builds a logger from config values and installs it as the default.
// Format is "text" or "json"; anything else falls back to text.
func Configure(level, format string) *Logger {
	lv := ParseLogLevel(level)
	var l *Logger
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		l = NewJSONLogger(lv)
	} else {
		l = NewLogger(lv)
	}
	SetDefaultLogger(l)
	return l
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", component),
		level:  l.level,
	}
}

// WithSurvey returns a logger with survey context
func (l *Logger) WithSurvey(surveyID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("survey", surveyID),
		level:  l.level,
	}
}

// WithExport returns a logger with export job context
func (l *Logger) WithExport(progressID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("progress_id", progressID),
		level:  l.level,
	}
}

// WithRequest returns a logger with HTTP request context
func (l *Logger) WithRequest(method, url string) *Logger {
	return &Logger{
		Logger: l.Logger.With("method", method, "url", url),
		level:  l.level,
	}
}

// Global default logger instance
var defaultLogger = NewLogger(LogLevelInfo)

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger *Logger) {
	defaultLogger = logger
}

// GetLogger returns the default logger
func GetLogger() *Logger {
	return defaultLogger
}
