// Package logging adapts the structured, context-aware logging style used
// across the corpus this was built from (see common/logger.go) for the
// document graph: a Document only logs if a *Logger has been attached via
// SetLogger, so embedding a graph in a quiet batch job costs nothing.
package logging

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Level names the standard set of log levels.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Config configures a logger for the document graph or the demo CLI.
type Config struct {
	Level      Level
	Format     string // "json" or "text"
	Service    string
	TimeFormat string
}

// DefaultConfig returns sensible defaults: info level, text format.
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		Format:     "text",
		TimeFormat: time.RFC3339,
	}
}

// New builds a *logrus.Logger from cfg.
func New(cfg Config) *logrus.Logger {
	l := logrus.New()
	switch cfg.Level {
	case LevelDebug:
		l.SetLevel(logrus.DebugLevel)
	case LevelWarn:
		l.SetLevel(logrus.WarnLevel)
	case LevelError:
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: cfg.TimeFormat})
	} else {
		l.SetFormatter(&logrus.TextFormatter{TimestampFormat: cfg.TimeFormat, FullTimestamp: true})
	}
	return l
}

// Logger wraps a logrus entry with a fluent, context-carrying API, mirroring
// ContextLogger from the corpus this is adapted from.
type Logger struct {
	entry *logrus.Entry
}

// Wrap adapts an existing *logrus.Logger, letting a host application share
// its own logger configuration (output, hooks) with the document graph.
func Wrap(base *logrus.Logger) *Logger {
	if base == nil {
		base = logrus.New()
	}
	return &Logger{entry: logrus.NewEntry(base)}
}

// WithField returns a Logger carrying an additional field.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// WithFields returns a Logger carrying additional fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *Logger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }
