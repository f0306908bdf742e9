package element

import (
	"time"

	"github.com/abhisek/fragebogen/internal/diag"
)

// Option configures a Base or Item at construction.
type Option func(*settings)

type settings struct {
	log        diag.Logger
	now        func() time.Time
	answered   func(any) bool
	readiness  func() bool
	resource   bool
	visibility *bool
}

// WithLogger injects the diagnostic sink.
func WithLogger(l diag.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithClock injects the time source used for answer timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithExternalResource marks the element as fetching something during
// Preload; it starts out not preloaded.
func WithExternalResource() Option {
	return func(s *settings) { s.resource = true }
}

// Hidden creates the element invisible.
func Hidden() Option {
	v := false
	return func(s *settings) { s.visibility = &v }
}

func resolve(opts []Option) settings {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	s.log = diag.Or(s.log)
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Base carries the lifecycle state shared by all elements.
// Concrete widgets embed it and provide CreateUI.
type Base struct {
	kind      string
	log       diag.Logger
	now       func() time.Time
	handle    Handle
	enabled   bool
	visible   bool
	preloaded bool

	onPreloaded func()
}

// NewBase creates the shared state for a widget of the given kind.
func NewBase(kind string, opts ...Option) Base {
	s := resolve(opts)
	return newBase(kind, s)
}

func newBase(kind string, s settings) Base {
	visible := true
	if s.visibility != nil {
		visible = *s.visibility
	}
	return Base{
		kind:      kind,
		log:       s.log,
		now:       s.now,
		visible:   visible,
		preloaded: !s.resource,
	}
}

func (b *Base) Type() string      { return b.kind }
func (b *Base) Log() diag.Logger  { return b.log }
func (b *Base) Now() time.Time    { return b.now() }
func (b *Base) Handle() Handle    { return b.handle }
func (b *Base) IsUICreated() bool { return b.handle != nil }
func (b *Base) IsEnabled() bool   { return b.enabled }
func (b *Base) IsVisible() bool   { return b.visible }
func (b *Base) SetVisible(v bool) { b.visible = v }
func (b *Base) IsPreloaded() bool { return b.preloaded }

func (b *Base) location(m string) string {
	return b.kind + "." + m
}

// Attach records h as the live render target and returns it.
func (b *Base) Attach(h Handle) Handle {
	b.handle = h
	return h
}

// ReleaseUI drops the render target. Enabling requires a new CreateUI.
func (b *Base) ReleaseUI() {
	b.handle = nil
	b.enabled = false
}

// SetEnabled changes the enabled state; without UI it does nothing.
func (b *Base) SetEnabled(enabled bool) {
	if !b.IsUICreated() {
		b.log.Debug(b.location("SetEnabled"), "no UI created; ignoring")
		return
	}
	b.enabled = enabled
}

// Preload has nothing to fetch by default and reports completion at once.
func (b *Base) Preload() {
	b.sendPreloaded()
}

// SetOnPreloadedCallback replaces the preload subscriber.
func (b *Base) SetOnPreloadedCallback(fn func()) bool {
	if fn == nil {
		b.log.Error(b.location("SetOnPreloadedCallback"), "no callback given")
		return false
	}
	b.onPreloaded = fn
	return true
}

// BeginPreload reports whether a fetch is needed. An element that is already
// preloaded only repeats its signal.
func (b *Base) BeginPreload() bool {
	if b.preloaded {
		b.sendPreloaded()
		return false
	}
	return true
}

// MarkPreloaded flips the element to preloaded and notifies the subscriber.
// Only the first call has any effect.
func (b *Base) MarkPreloaded() bool {
	if b.preloaded {
		return false
	}
	b.preloaded = true
	b.sendPreloaded()
	return true
}

// NotifyPreloadEvent re-sends the preload signal without changing state,
// e.g. after a stall, so the owner re-checks.
func (b *Base) NotifyPreloadEvent() {
	b.sendPreloaded()
}

func (b *Base) sendPreloaded() {
	if b.onPreloaded == nil {
		b.log.Debug(b.location("Preload"), "no preloaded callback set")
		return
	}
	b.onPreloaded()
}
