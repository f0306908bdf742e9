// Package element defines the widgets a screen is composed of and the
// lifecycle every widget follows: create UI, enable, release UI.
package element

import (
	tea "charm.land/bubbletea/v2"
)

// Handle is the live render target returned by CreateUI.
type Handle interface {
	View(width int) string
}

// InputHandle is a Handle that consumes key and terminal messages.
type InputHandle interface {
	Handle
	Update(msg tea.Msg) tea.Cmd
}

// Focusable handles track keyboard focus.
type Focusable interface {
	Focus() tea.Cmd
	Blur()
}

// Element is any renderable widget of a screen.
type Element interface {
	// Type names the widget kind; it is the "Type of item" export column.
	Type() string

	CreateUI() Handle
	ReleaseUI()
	IsUICreated() bool

	// SetEnabled is a no-op while no UI exists.
	SetEnabled(enabled bool)
	IsEnabled() bool

	SetVisible(visible bool)
	IsVisible() bool

	// Preload starts fetching external resources and reports completion
	// through the preloaded callback.
	Preload()
	IsPreloaded() bool
	SetOnPreloadedCallback(fn func()) bool
}

// Interactive elements report whether their goal has been fulfilled.
type Interactive interface {
	Element

	IsReady() bool
	// SetOnReadyStateChangedCallback replaces the single subscriber;
	// nil removes it.
	SetOnReadyStateChangedCallback(fn func())
	// MarkRequired updates the UI to flag a not-yet-ready element.
	MarkRequired()
}

// Answerable elements ask a question and keep an answer history.
type Answerable interface {
	Interactive

	Question() string
	IsRequired() bool
	// AnswerOptions describes the answer scale; nil when unconstrained.
	AnswerOptions() any
	// Answer is the most recent answer, nil when none.
	Answer() any
	Changelog() []Entry
}

// Capabilities records which optional contracts an element fulfills.
// It is resolved once when a screen is built.
type Capabilities struct {
	Interactive Interactive
	Answerable  Answerable
}

// Describe resolves the capabilities of e.
func Describe(e Element) Capabilities {
	var c Capabilities
	if i, ok := e.(Interactive); ok {
		c.Interactive = i
	}
	if a, ok := e.(Answerable); ok {
		c.Answerable = a
	}
	return c
}

// IsInteractive reports whether the element reports readiness.
func (c Capabilities) IsInteractive() bool {
	return c.Interactive != nil
}
