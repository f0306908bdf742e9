package screen

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/paginate"
	"github.com/abhisek/fragebogen/internal/ui/components"
	"github.com/abhisek/fragebogen/internal/ui/layout"
)

// Mode selects how an Elements screen enables its elements and when it
// asks to move on.
type Mode int

const (
	// Manual enables everything on start; only the paginator navigates.
	Manual Mode = iota
	// Auto enables everything and advances once all interactive elements
	// are ready. It has no paginator.
	Auto
	// Sequential enables one interactive element at a time.
	Sequential
)

func (m Mode) String() string {
	switch m {
	case Manual:
		return "manual"
	case Auto:
		return "auto"
	case Sequential:
		return "sequential"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

const noFocus = -1

// Elements is a screen composed of elements.
type Elements struct {
	Base

	mode      Mode
	elements  []element.Element
	caps      []element.Capabilities
	paginator paginate.Paginator

	handles   []element.Handle
	pagHandle paginate.Handle
	// focus indexes handles; len(handles) is the paginator.
	focus   int
	yOffset int

	started    bool
	autoSent   bool
	current    int
	preloading bool
}

var _ Screen = (*Elements)(nil)
var _ PaginateUISetter = (*Elements)(nil)
var _ KeyHintProvider = (*Elements)(nil)

// New creates an Elements screen. Nil elements are dropped; an empty list
// or a sequential screen without interactive elements is logged as a
// configuration error.
func New(mode Mode, elements []element.Element, opts ...Option) *Elements {
	st := resolve(opts, "")
	s := &Elements{
		Base:    newBase("Elements"+capitalize(mode.String()), st),
		mode:    mode,
		focus:   noFocus,
		current: noFocus,
	}
	s.bind(s)

	for i, e := range elements {
		if e == nil {
			s.log.Error(s.location("New"), fmt.Sprintf("element %d is nil and will be ignored", i))
			continue
		}
		s.elements = append(s.elements, e)
		s.caps = append(s.caps, element.Describe(e))
	}
	if len(s.elements) == 0 {
		s.log.Error(s.location("New"), "no elements were given")
	}
	if mode == Sequential && s.firstInteractive(0) == noFocus {
		s.log.Error(s.location("New"), "at least one interactive element is required")
	}
	if mode != Auto {
		s.paginator = paginate.Next(paginate.WithLogger(s.log))
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// Mode returns the composition mode.
func (s *Elements) Mode() Mode { return s.mode }

// Elements returns the children in display order.
func (s *Elements) Elements() []element.Element { return s.elements }

// SetPaginateUI replaces the paginator; nil removes it. It fails once the
// UI exists and always in auto mode.
func (s *Elements) SetPaginateUI(p paginate.Paginator) bool {
	if s.mode == Auto {
		s.log.Warn(s.location("SetPaginateUI"), "auto screens do not support pagination")
		return false
	}
	if s.uiCreated {
		s.log.Warn(s.location("SetPaginateUI"), "UI already created")
		return false
	}
	s.paginator = p
	return true
}

func (s *Elements) CreateUI() {
	if s.uiCreated {
		s.log.Warn(s.location("CreateUI"), "UI already created")
		return
	}
	s.handles = make([]element.Handle, len(s.elements))
	for i, e := range s.elements {
		s.handles[i] = e.CreateUI()
	}
	if s.paginator != nil {
		s.paginator.SetPaginateCallback(func(offset int) {
			s.sendPaginate(offset, offset > 0)
		})
		s.pagHandle = s.paginator.CreateUI()
	}
	if s.mode == Auto {
		for _, c := range s.caps {
			if c.IsInteractive() {
				c.Interactive.SetOnReadyStateChangedCallback(s.onAutoReadyStateChanged)
			}
		}
	}
	s.focus = noFocus
	s.yOffset = 0
	s.started = false
	s.autoSent = false
	s.current = noFocus
	s.uiCreated = true
}

func (s *Elements) ReleaseUI() {
	if !s.uiCreated {
		return
	}
	s.started = false
	if s.mode != Manual {
		for _, c := range s.caps {
			if c.IsInteractive() {
				c.Interactive.SetOnReadyStateChangedCallback(nil)
			}
		}
	}
	for _, e := range s.elements {
		e.ReleaseUI()
	}
	if s.paginator != nil {
		s.paginator.ReleaseUI()
	}
	s.handles = nil
	s.pagHandle = nil
	s.focus = noFocus
	s.current = noFocus
	s.uiCreated = false
}

func (s *Elements) Start() {
	if !s.uiCreated {
		s.log.Error(s.location("Start"), "no UI created")
		return
	}
	s.log.Info(s.location("Start"), "")
	switch s.mode {
	case Sequential:
		s.startSequence()
	default:
		for _, e := range s.elements {
			e.SetEnabled(true)
		}
		s.started = true
		s.focusFirst()
	}
}

// IsReady is true when every interactive element is ready. Elements that
// are not get their required marker.
func (s *Elements) IsReady() bool {
	ready := true
	for _, c := range s.caps {
		if !c.IsInteractive() {
			continue
		}
		if !c.Interactive.IsReady() {
			ready = false
		}
		c.Interactive.MarkRequired()
	}
	return ready
}

func (s *Elements) allReady() bool {
	for _, c := range s.caps {
		if c.IsInteractive() && !c.Interactive.IsReady() {
			return false
		}
	}
	return true
}

func (s *Elements) onAutoReadyStateChanged() {
	if !s.started || s.autoSent || !s.allReady() {
		return
	}
	s.autoSent = true
	s.sendPaginate(1, false)
}

func (s *Elements) firstInteractive(from int) int {
	for i := from; i < len(s.caps); i++ {
		if s.caps[i].IsInteractive() {
			return i
		}
	}
	return noFocus
}

func (s *Elements) startSequence() {
	for i, e := range s.elements {
		c := s.caps[i]
		if c.IsInteractive() {
			c.Interactive.SetOnReadyStateChangedCallback(nil)
		}
		e.SetEnabled(false)
		if c.IsInteractive() {
			idx := i
			c.Interactive.SetOnReadyStateChangedCallback(func() { s.onSequenceReady(idx) })
		}
	}
	s.started = true

	first := s.firstInteractive(0)
	if first == noFocus {
		s.log.Error(s.location("Start"), "at least one interactive element is required")
		s.focusFirst()
		return
	}
	for i := 0; i < first; i++ {
		s.elements[i].SetEnabled(true)
	}
	s.current = first
	s.elements[first].SetEnabled(true)
	s.focusCurrent()
}

// onSequenceReady moves on when the active element became ready. Elements
// between the active and the next interactive one are enabled with it.
func (s *Elements) onSequenceReady(idx int) {
	if !s.started || idx != s.current || !s.caps[idx].Interactive.IsReady() {
		return
	}
	next := noFocus
	for i := s.current + 1; i < len(s.elements); i++ {
		if s.caps[i].IsInteractive() {
			next = i
			break
		}
		s.elements[i].SetEnabled(true)
	}
	if next == noFocus {
		s.log.Warn(s.location("onSequenceReady"), "no interactive element left to enable")
		return
	}
	s.elements[s.current].SetEnabled(false)
	s.current = next
	s.elements[next].SetEnabled(true)
	s.focusCurrent()
}

// Current returns the index of the active element of a sequential screen,
// -1 if none.
func (s *Elements) Current() int { return s.current }

func (s *Elements) GetData(includeChangelog bool) Data {
	var d Data
	for _, c := range s.caps {
		a := c.Answerable
		if a == nil {
			continue
		}
		d.Types = append(d.Types, a.Type())
		d.Questions = append(d.Questions, a.Question())
		d.Options = append(d.Options, a.AnswerOptions())
		if includeChangelog {
			d.Answers = append(d.Answers, a.Changelog())
		} else {
			d.Answers = append(d.Answers, a.Answer())
		}
	}
	return d
}

// Preload fans out to every element and signals once all are preloaded.
func (s *Elements) Preload() {
	s.log.Debug(s.location("Preload"), "")
	s.preloading = true
	for _, e := range s.elements {
		e.SetOnPreloadedCallback(s.onElementPreloaded)
		e.Preload()
	}
	s.preloading = false
	s.onElementPreloaded()
}

func (s *Elements) IsPreloaded() bool {
	for _, e := range s.elements {
		if !e.IsPreloaded() {
			return false
		}
	}
	return true
}

func (s *Elements) onElementPreloaded() {
	if s.preloading || !s.IsPreloaded() {
		return
	}
	s.sendPreloaded()
}

// focusables lists the handle positions keyboard focus may visit.
func (s *Elements) focusables() []int {
	var ring []int
	for i, h := range s.handles {
		e := s.elements[i]
		if _, ok := h.(element.Focusable); ok && e.IsEnabled() && e.IsVisible() {
			ring = append(ring, i)
		}
	}
	if s.pagHandle != nil {
		ring = append(ring, len(s.handles))
	}
	return ring
}

func (s *Elements) focusFirst() tea.Cmd {
	ring := s.focusables()
	if len(ring) == 0 {
		return s.setFocus(noFocus)
	}
	return s.setFocus(ring[0])
}

func (s *Elements) focusCurrent() tea.Cmd {
	if s.current != noFocus {
		if _, ok := s.handles[s.current].(element.Focusable); ok && s.elements[s.current].IsVisible() {
			return s.setFocus(s.current)
		}
	}
	return s.focusFirst()
}

func (s *Elements) cycleFocus(step int) tea.Cmd {
	ring := s.focusables()
	if len(ring) == 0 {
		return nil
	}
	pos := -1
	for i, idx := range ring {
		if idx == s.focus {
			pos = i
		}
	}
	if pos == -1 {
		return s.setFocus(ring[0])
	}
	return s.setFocus(ring[(pos+step+len(ring))%len(ring)])
}

func (s *Elements) setFocus(idx int) tea.Cmd {
	if idx == s.focus {
		return nil
	}
	prev := s.focus
	s.focus = idx
	if prev != noFocus {
		s.blurAt(prev)
		// Blurring may commit an answer that moved the sequence on.
		if s.focus != idx {
			return nil
		}
	}
	if idx == noFocus {
		return nil
	}
	if idx == len(s.handles) {
		return s.pagHandle.Focus()
	}
	if f, ok := s.handles[idx].(element.Focusable); ok {
		return f.Focus()
	}
	return nil
}

func (s *Elements) blurAt(idx int) {
	if idx == len(s.handles) {
		if s.pagHandle != nil {
			s.pagHandle.Blur()
		}
		return
	}
	if idx < len(s.handles) {
		if f, ok := s.handles[idx].(element.Focusable); ok {
			f.Blur()
		}
	}
}

// Focused returns the focused handle position, -1 if none. The paginator
// is at len(Elements()).
func (s *Elements) Focused() int { return s.focus }

func (s *Elements) Update(msg tea.Msg) tea.Cmd {
	if !s.uiCreated {
		return nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab":
			return s.cycleFocus(1)
		case "shift+tab":
			return s.cycleFocus(-1)
		}
		switch {
		case s.focus == len(s.handles):
			return s.pagHandle.Update(msg)
		case s.focus != noFocus:
			if h, ok := s.handles[s.focus].(element.InputHandle); ok {
				return h.Update(msg)
			}
		}
		return nil
	}

	var cmds []tea.Cmd
	for _, h := range s.handles {
		if ih, ok := h.(element.InputHandle); ok {
			cmds = append(cmds, ih.Update(msg))
		}
	}
	return tea.Batch(cmds...)
}

func (s *Elements) View(width, height int) string {
	if !s.uiCreated {
		return ""
	}
	w := components.ContentWidth(width)

	var blocks []string
	focusTop, focusBottom := -1, -1
	line := 0
	add := func(idx int, view string) {
		if view == "" {
			return
		}
		if len(blocks) > 0 {
			blocks = append(blocks, "")
			line++
		}
		if idx == s.focus {
			focusTop = line
			focusBottom = line + lipgloss.Height(view)
		}
		blocks = append(blocks, view)
		line += lipgloss.Height(view)
	}
	for i, h := range s.handles {
		if s.elements[i].IsVisible() {
			add(i, h.View(w))
		}
	}
	if s.pagHandle != nil {
		add(len(s.handles), s.pagHandle.View(w))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	if height > 0 && line > height {
		content = s.scroll(content, line, height, focusTop, focusBottom)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

// scroll keeps the focused block inside the visible window.
func (s *Elements) scroll(content string, total, height, top, bottom int) string {
	if top >= 0 {
		if top < s.yOffset {
			s.yOffset = top
		}
		if bottom > s.yOffset+height {
			s.yOffset = bottom - height
		}
	}
	s.yOffset = max(0, min(s.yOffset, total-height))
	return components.Window(content, s.yOffset, height)
}

func (s *Elements) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Select"},
	}
	if s.mode == Sequential {
		hints[0].Description = "Focus"
	}
	return hints
}
