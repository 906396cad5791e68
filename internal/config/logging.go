package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel represents logging verbosity levels.
type LogLevel int

// Log level constants.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelDebug
)

// ParseLogLevel parses a log level string.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LogLevelOff
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelError
	}
}

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "off"
	case LogLevelDebug:
		return "debug"
	default:
		return "error"
	}
}

// Logger writes structured log records to a file. The engine itself never
// logs; only the CLI and store layers do, and never secret material.
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	file    *os.File
	slogger *slog.Logger
	json    bool
}

// NewLogger creates a logger writing to filePath at the given level. An
// empty path or LogLevelOff yields a no-op logger.
func NewLogger(level LogLevel, filePath string) (*Logger, error) {
	logger := &Logger{level: level}
	if level == LogLevelOff || filePath == "" {
		return logger, nil
	}

	filePath = expandHome(filePath)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	logger.file = f
	logger.initSlogger()
	return logger, nil
}

func (l *Logger) initSlogger() {
	if l.file == nil {
		return
	}
	opts := &slog.HandlerOptions{Level: l.slogLevel()}
	var handler slog.Handler
	if l.json {
		handler = slog.NewJSONHandler(l.file, opts)
	} else {
		handler = slog.NewTextHandler(l.file, opts)
	}
	l.slogger = slog.New(handler)
}

func (l *Logger) slogLevel() slog.Level {
	if l.level == LogLevelDebug {
		return slog.LevelDebug
	}
	return slog.LevelError
}

// SetJSONOutput switches the record format. Call before logging starts.
func (l *Logger) SetJSONOutput(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.json = enabled
	l.initSlogger()
}

// Debug logs a debug message with structured attributes.
func (l *Logger) Debug(msg string, attrs ...slog.Attr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level < LogLevelDebug || l.slogger == nil {
		return
	}
	l.slogger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

// Error logs an error message with structured attributes.
func (l *Logger) Error(msg string, attrs ...slog.Attr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level == LogLevelOff || l.slogger == nil {
		return
	}
	l.slogger.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
