// Package logging provides the leveled logger shared by the client, poller and CLI.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Logger defines the logging interface.
type Logger interface {
	Debug(v ...any)
	Debugf(format string, v ...any)
	Info(v ...any)
	Infof(format string, v ...any)
	Warn(v ...any)
	Warnf(format string, v ...any)
	Error(v ...any)
	Errorf(format string, v ...any)
}

// Level represents logging levels.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	levelOff
)

// EnvLevel overrides the configured level when set.
const EnvLevel = "SHELF_LOG_LEVEL"

type logger struct {
	level   Level
	loggers map[Level]*log.Logger
	closer  io.Closer
	mu      sync.RWMutex
}

// New creates a logger writing every level to w.
func New(w io.Writer, level string) Logger {
	return newLogger(w, ParseLevel(resolveLevel(level)), nil)
}

// Open appends to the log file at path, creating its directory as needed.
// The returned close function releases the file.
func Open(path, level string) (Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	l := newLogger(file, ParseLevel(resolveLevel(level)), file)
	return l, l.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return newLogger(io.Discard, levelOff, nil)
}

func newLogger(w io.Writer, level Level, closer io.Closer) *logger {
	return &logger{
		level:  level,
		closer: closer,
		loggers: map[Level]*log.Logger{
			LevelDebug: log.New(w, "[DEBUG] ", log.LstdFlags|log.Lshortfile),
			LevelInfo:  log.New(w, "[INFO] ", log.LstdFlags),
			LevelWarn:  log.New(w, "[WARN] ", log.LstdFlags),
			LevelError: log.New(w, "[ERROR] ", log.LstdFlags|log.Lshortfile),
		},
	}
}

func resolveLevel(level string) string {
	if env := strings.TrimSpace(os.Getenv(EnvLevel)); env != "" {
		return env
	}
	return level
}

// ParseLevel converts a level name; unknown names mean info.
func ParseLevel(levelStr string) Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *logger) shouldLog(level Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.level
}

func (l *logger) output(level Level, msg string) {
	if !l.shouldLog(level) {
		return
	}
	l.mu.RLock()
	out := l.loggers[level]
	l.mu.RUnlock()
	_ = out.Output(3, msg)
}

func (l *logger) Debug(v ...any) { l.output(LevelDebug, fmt.Sprint(v...)) }

func (l *logger) Debugf(format string, v ...any) { l.output(LevelDebug, fmt.Sprintf(format, v...)) }

func (l *logger) Info(v ...any) { l.output(LevelInfo, fmt.Sprint(v...)) }

func (l *logger) Infof(format string, v ...any) { l.output(LevelInfo, fmt.Sprintf(format, v...)) }

func (l *logger) Warn(v ...any) { l.output(LevelWarn, fmt.Sprint(v...)) }

func (l *logger) Warnf(format string, v ...any) { l.output(LevelWarn, fmt.Sprintf(format, v...)) }

func (l *logger) Error(v ...any) { l.output(LevelError, fmt.Sprint(v...)) }

func (l *logger) Errorf(format string, v ...any) { l.output(LevelError, fmt.Sprintf(format, v...)) }
