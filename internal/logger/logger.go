// Package logger is the process-wide log sink. It wraps a
// go.uber.org/zap production core behind log/slog via zap/exp/zapslog, the
// same composition kTowkA-shortener/internal/logger uses, and additionally
// keeps a level-tagged in-memory buffer (unbounded until ".clear") so the administrator console's
// ".log [--info|--error|--warn]", ".clear", and ".end --save" commands have
// something to read and persist — the original implementation's
// logs/LogHandler.java plays the same role for its GUI.
package logger

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the original's enums/LoggerType: the three tags an
// operator can filter the admin log view by.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARNING"
	LevelError Level = "ERROR"
)

// Entry is one buffered log line, as surfaced to the admin console.
type Entry struct {
	Time  time.Time
	Level Level
	Tag   string
	Text  string
}

// Log is the shared sink. Safe for concurrent use: *slog.Logger is already
// safe, and the buffer has its own mutex per spec.md §5's "Log: sink with
// its own synchronization".
type Log struct {
	*slog.Logger
	zl *zap.Logger

	mu     sync.Mutex
	buffer []Entry
}

// New builds a Log at the given minimum zap level.
func New(level zapcore.Level) (*Log, error) {
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stdout"}
	zc.Encoding = "json"
	zc.Level.SetLevel(level)

	zl, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &Log{
		Logger: slog.New(zapslog.NewHandler(zl.Core())),
		zl:     zl,
	}, nil
}

// LevelFromString maps a config string ("debug"/"info"/"warn"/"error") to
// a zapcore.Level, defaulting to InfoLevel for anything else.
func LevelFromString(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Close flushes the underlying zap core.
func (l *Log) Close() {
	_ = l.zl.Sync()
}

func (l *Log) record(level Level, tag, format string, args ...any) {
	entry := Entry{Time: time.Now(), Level: level, Tag: tag, Text: fmt.Sprintf(format, args...)}
	l.mu.Lock()
	l.buffer = append(l.buffer, entry)
	l.mu.Unlock()
}

// Info logs at info level and tags the buffered entry.
func (l *Log) Info(msg string, args ...any) {
	l.Logger.Info(msg, args...)
	l.record(LevelInfo, msg, "%v", args)
}

// Warn logs at warn level and tags the buffered entry. Used by
// internal/store for the add() rollback-failure case spec.md §7 calls out
// by name.
func (l *Log) Warn(msg string, args ...any) {
	l.Logger.Warn(msg, args...)
	l.record(LevelWarn, msg, "%v", args)
}

// Error logs at error level and tags the buffered entry.
func (l *Log) Error(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	l.record(LevelError, msg, "%v", args)
}

// Buffered returns a snapshot of buffered entries, optionally filtered by
// level (empty level returns everything), for ".log [--info|--error|--warn]".
func (l *Log) Buffered(level Level) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level == "" {
		out := make([]Entry, len(l.buffer))
		copy(out, l.buffer)
		return out
	}
	var out []Entry
	for _, e := range l.buffer {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Clear empties the buffer, for ".clear".
func (l *Log) Clear() {
	l.mu.Lock()
	l.buffer = nil
	l.mu.Unlock()
}
