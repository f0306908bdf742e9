package diag

import (
	"strings"
	"sync"
	"time"
)

// Level orders recorded entries by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Entry is one recorded diagnostic.
type Entry struct {
	Time     time.Time
	Level    Level
	Location string
	Message  string
}

// Recorder keeps an append-only history of diagnostics in memory.
// An optional next logger receives every entry as well.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	next    Logger
}

var _ Logger = (*Recorder)(nil)

// NewRecorder creates a recorder that also forwards to next (may be nil).
func NewRecorder(next Logger) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) record(level Level, location, msg string) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{
		Time:     time.Now(),
		Level:    level,
		Location: location,
		Message:  msg,
	})
	r.mu.Unlock()
}

func (r *Recorder) Debug(location, msg string) {
	r.record(LevelDebug, location, msg)
	if r.next != nil {
		r.next.Debug(location, msg)
	}
}

func (r *Recorder) Info(location, msg string) {
	r.record(LevelInfo, location, msg)
	if r.next != nil {
		r.next.Info(location, msg)
	}
}

func (r *Recorder) Warn(location, msg string) {
	r.record(LevelWarn, location, msg)
	if r.next != nil {
		r.next.Warn(location, msg)
	}
}

func (r *Recorder) Error(location, msg string) {
	r.record(LevelError, location, msg)
	if r.next != nil {
		r.next.Error(location, msg)
	}
}

func (r *Recorder) Fatal(location, msg string) {
	r.record(LevelFatal, location, msg)
	if r.next != nil {
		r.next.Fatal(location, msg)
	}
}

// Entries returns a copy of the recorded history.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many entries were recorded at exactly level.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether an entry at level has a message containing substr.
func (r *Recorder) Contains(level Level, substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
