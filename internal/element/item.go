package element

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Entry is one answer in an item's history.
type Entry struct {
	Time  time.Time
	Value any
}

// MarshalJSON encodes the entry as a [timestamp, value] pair.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Time.UTC().Format(time.RFC3339Nano), e.Value})
}

// WithAnsweredWhen replaces the test applied to the latest answer value.
// By default any non-nil value counts as answered.
func WithAnsweredWhen(fn func(value any) bool) Option {
	return func(s *settings) { s.answered = fn }
}

// WithReadiness replaces the readiness rule of an item.
func WithReadiness(fn func() bool) Option {
	return func(s *settings) { s.readiness = fn }
}

// Notifier is the single-slot ready-state-changed subscription.
type Notifier struct {
	fn func()
}

// SetOnReadyStateChangedCallback replaces the subscriber; nil removes it.
func (n *Notifier) SetOnReadyStateChangedCallback(fn func()) {
	n.fn = fn
}

// NotifyReadyStateChanged informs the subscriber, which must re-poll IsReady.
func (n *Notifier) NotifyReadyStateChanged() {
	if n.fn != nil {
		n.fn()
	}
}

// Item is a question with an append-only, timestamped answer log.
// Widgets embed it and add a scale.
type Item struct {
	Base
	Notifier

	question string
	required bool
	answers  []Entry
	marked   bool

	answered  func(any) bool
	readiness func() bool
}

// NewItem creates an item of the given kind.
func NewItem(kind, question string, required bool, opts ...Option) Item {
	s := resolve(opts)
	it := Item{
		Base:      newBase(kind, s),
		question:  question,
		required:  required,
		answered:  s.answered,
		readiness: s.readiness,
	}
	it.Log().Debug(kind+".New", fmt.Sprintf("question %q, required %t", question, required))
	return it
}

func (i *Item) Question() string { return i.question }
func (i *Item) IsRequired() bool { return i.required }

// AnswerOptions is nil unless a widget defines a scale.
func (i *Item) AnswerOptions() any { return nil }

// Answer returns the latest answer or nil.
func (i *Item) Answer() any {
	if len(i.answers) == 0 {
		return nil
	}
	return i.answers[len(i.answers)-1].Value
}

// Changelog returns a copy of the answer history.
func (i *Item) Changelog() []Entry {
	out := make([]Entry, len(i.answers))
	copy(out, i.answers)
	return out
}

// SetAnswer appends value to the history and notifies the subscriber,
// whether or not readiness changed.
func (i *Item) SetAnswer(value any) bool {
	i.answers = append(i.answers, Entry{Time: i.Now(), Value: value})
	if i.marked {
		i.MarkRequired()
	}
	i.NotifyReadyStateChanged()
	return true
}

// Commit records value as the current answer without notifying. Widgets
// whose answer is derived from transient state (playback, focus time) call
// it on teardown and when queried. Unchanged values are not recorded twice.
func (i *Item) Commit(value any) {
	if n := len(i.answers); n > 0 && reflect.DeepEqual(i.answers[n-1].Value, value) {
		return
	}
	i.answers = append(i.answers, Entry{Time: i.Now(), Value: value})
}

// IsAnswered reports whether the latest answer counts as an answer.
func (i *Item) IsAnswered() bool {
	if len(i.answers) == 0 {
		return false
	}
	v := i.answers[len(i.answers)-1].Value
	if i.answered != nil {
		return i.answered(v)
	}
	return v != nil
}

// IsReady is true for optional items and answered required ones.
func (i *Item) IsReady() bool {
	if i.readiness != nil {
		return i.readiness()
	}
	if i.required {
		return i.IsAnswered()
	}
	return true
}

// MarkRequired flags the item while it is not ready.
func (i *Item) MarkRequired() {
	i.marked = !i.IsReady()
}

// RequiredMarked reports whether the UI should highlight the item.
func (i *Item) RequiredMarked() bool {
	return i.marked && i.IsUICreated()
}

// ReleaseUI keeps the answer history; only UI state is reset.
func (i *Item) ReleaseUI() {
	i.Base.ReleaseUI()
	i.marked = false
}
