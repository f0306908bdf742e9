package widgets

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/loop"
)

// system is the base of items that answer themselves and render nothing.
type system struct {
	element.Item
}

func newSystem(kind, question string, required bool, opts []element.Option) system {
	opts = append(opts, element.Hidden())
	return system{Item: element.NewItem(kind, question, required, opts...)}
}

// SetVisible is ignored; system items are never shown.
func (s *system) SetVisible(bool) {}

// SetEnabled re-announces readiness once enabled so sequential screens
// move past items that were ready before they got their turn.
func (s *system) SetEnabled(enabled bool) {
	s.Item.SetEnabled(enabled)
	if s.IsUICreated() && s.IsEnabled() {
		s.NotifyReadyStateChanged()
	}
}

func (s *system) MarkRequired() {}

// Const answers with a fixed value, e.g. a condition or participant code.
type Const struct {
	system
	content any
}

func NewConst(question string, content any, opts ...element.Option) *Const {
	return &Const{system: newSystem("SystemConst", question, false, opts), content: content}
}

func (c *Const) CreateUI() element.Handle {
	h := c.Attach(hidden{})
	c.SetAnswer(c.content)
	return h
}

// ScreenDateTime answers with the time its screen was shown.
type ScreenDateTime struct {
	system
}

func NewScreenDateTime(opts ...element.Option) *ScreenDateTime {
	return &ScreenDateTime{system: newSystem("SystemScreenDateTime", "DateTime", false, opts)}
}

func (s *ScreenDateTime) CreateUI() element.Handle {
	h := s.Attach(hidden{})
	s.SetAnswer(s.Now().Format(time.RFC3339Nano))
	return h
}

// ScreenDuration answers with the milliseconds its screen was shown.
type ScreenDuration struct {
	system
	shown time.Time
}

func NewScreenDuration(opts ...element.Option) *ScreenDuration {
	return &ScreenDuration{system: newSystem("SystemScreenDuration", "Screen Duration", false, opts)}
}

func (s *ScreenDuration) CreateUI() element.Handle {
	s.shown = s.Now()
	return s.Attach(hidden{})
}

func (s *ScreenDuration) ReleaseUI() {
	if !s.IsUICreated() {
		return
	}
	s.system.ReleaseUI()
	s.SetAnswer(s.Now().Sub(s.shown).Milliseconds())
}

// ViewportSize answers with the terminal size in cells as [width, height].
type ViewportSize struct {
	system
	term *Terminal
}

func NewViewportSize(term *Terminal, opts ...element.Option) *ViewportSize {
	if term == nil {
		term = &Terminal{}
	}
	return &ViewportSize{system: newSystem("SystemViewportSize", "Viewport size", false, opts), term: term}
}

func (v *ViewportSize) CreateUI() element.Handle {
	h := v.Attach(hidden{})
	v.SetAnswer([]int{v.term.Width, v.term.Height})
	return h
}

// FocusSpan is how long the terminal kept or lacked focus.
type FocusSpan struct {
	InFocus bool
	Millis  int64
}

// MarshalJSON encodes the span as an [inFocus, ms] pair.
func (f FocusSpan) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[%t,%d]", f.InFocus, f.Millis)), nil
}

// Focus records terminal focus changes while its screen is shown.
type Focus struct {
	system
	since   time.Time
	inFocus *bool
	spans   []FocusSpan
}

func NewFocus(opts ...element.Option) *Focus {
	return &Focus{system: newSystem("SystemFocus", "Focus", false, opts)}
}

func (f *Focus) CreateUI() element.Handle {
	f.since = f.Now()
	f.inFocus = nil
	if prev, ok := f.Answer().([]FocusSpan); ok {
		f.spans = append([]FocusSpan(nil), prev...)
	}
	return f.Attach(&focusHandle{f: f})
}

func (f *Focus) changed(got bool) {
	// Blur may be reported repeatedly.
	if f.inFocus != nil && *f.inFocus == got {
		return
	}
	now := f.Now()
	f.spans = append(f.spans, FocusSpan{InFocus: got, Millis: now.Sub(f.since).Milliseconds()})
	f.SetAnswer(append([]FocusSpan(nil), f.spans...))
	f.inFocus = &got
	f.since = now
}

func (f *Focus) ReleaseUI() {
	if !f.IsUICreated() {
		return
	}
	f.system.ReleaseUI()
	state := true
	if f.inFocus != nil {
		state = *f.inFocus
	}
	f.spans = append(f.spans, FocusSpan{InFocus: state, Millis: f.Now().Sub(f.since).Milliseconds()})
	f.SetAnswer(append([]FocusSpan(nil), f.spans...))
}

type focusHandle struct {
	hidden
	f *Focus
}

func (h *focusHandle) Update(msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case tea.FocusMsg:
		h.f.changed(true)
	case tea.BlurMsg:
		h.f.changed(false)
	}
	return nil
}

// Wait becomes ready once a fixed time has passed after its UI was created.
type Wait struct {
	system
	loop  loop.Loop
	delay time.Duration
	timer loop.Timer
}

func NewWait(l loop.Loop, delay time.Duration, opts ...element.Option) *Wait {
	w := &Wait{system: newSystem("SystemWait", "", true, opts), loop: l, delay: delay}
	w.Log().Debug("SystemWait.New", fmt.Sprintf("delay %s", delay))
	return w
}

func (w *Wait) CreateUI() element.Handle {
	loop.StopTimer(w.timer)
	w.timer = w.loop.AfterFunc(w.delay, func() {
		w.timer = nil
		w.SetAnswer(w.delay.Milliseconds())
	})
	return w.Attach(hidden{})
}

func (w *Wait) ReleaseUI() {
	w.system.ReleaseUI()
	loop.StopTimer(w.timer)
	w.timer = nil
}
