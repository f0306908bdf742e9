// Package diag is the diagnostic sink shared by the questionnaire engine.
//
// Components receive a Logger at construction. A process-wide default exists
// only as a convenience for callers that do not inject one; nothing in the
// engine reads log history back, so swapping the sink never changes behavior.
package diag

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Logger receives diagnostics tagged with the location that produced them.
type Logger interface {
	Debug(location, msg string)
	Info(location, msg string)
	Warn(location, msg string)
	Error(location, msg string)
	// Fatal reports an unrecoverable configuration problem. It does not exit.
	Fatal(location, msg string)
}

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

var _ Logger = (*SlogLogger)(nil)

// New creates a JSON logger writing records at or above level to w.
func New(w io.Writer, level slog.Level) *SlogLogger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return FromSlog(slog.New(handler).With(slog.String("system", "fragebogen")))
}

// FromSlog wraps an existing slog logger.
func FromSlog(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(location, msg string) {
	s.l.Debug(msg, slog.String("location", location))
}

func (s *SlogLogger) Info(location, msg string) {
	s.l.Info(msg, slog.String("location", location))
}

func (s *SlogLogger) Warn(location, msg string) {
	s.l.Warn(msg, slog.String("location", location))
}

func (s *SlogLogger) Error(location, msg string) {
	s.l.Error(msg, slog.String("location", location))
}

func (s *SlogLogger) Fatal(location, msg string) {
	s.l.LogAttrs(context.Background(), slog.LevelError, msg,
		slog.String("location", location),
		slog.Bool("fatal", true),
	)
}

// Discard drops every record.
var Discard Logger = FromSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))

var (
	mu  sync.RWMutex
	std = Discard
)

// Default returns the process-wide logger.
func Default() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// SetDefault replaces the process-wide logger. A nil logger restores Discard.
func SetDefault(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = Discard
	}
	std = l
}

// Or returns l, or the default logger when l is nil.
func Or(l Logger) Logger {
	if l == nil {
		return Default()
	}
	return l
}

// ParseLevel maps a level name to a slog level; unknown names map to info.
func ParseLevel(name string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
