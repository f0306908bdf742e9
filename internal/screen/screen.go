// Package screen implements the pages of a questionnaire. A screen owns its
// elements, aggregates their readiness and asks the controller to navigate
// through a paginate callback.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/diag"
	"github.com/abhisek/fragebogen/internal/export"
	"github.com/abhisek/fragebogen/internal/paginate"
	"github.com/abhisek/fragebogen/internal/ui/layout"
)

// Screen defines the interface the controller drives.
type Screen interface {
	// CreateUI materializes the screen and its elements.
	CreateUI()
	ReleaseUI()
	IsUICreated() bool

	// Start runs once the UI is mounted, e.g. enabling elements.
	Start()

	// IsReady reports whether forward navigation may proceed.
	IsReady() bool

	Preload()
	IsPreloaded() bool
	SetOnPreloadedCallback(fn func()) bool

	// GetData returns the export columns of the answerable elements.
	GetData(includeChangelog bool) Data

	// SetPaginateCallback replaces the navigation subscriber; nil is rejected.
	SetPaginateCallback(fn func(s Screen, offset int)) bool

	// Update handles messages while the screen is mounted.
	Update(msg tea.Msg) tea.Cmd

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// PaginateUISetter is implemented by screens whose paginator can be replaced.
type PaginateUISetter interface {
	SetPaginateUI(p paginate.Paginator) bool
}

// DataRequester is implemented by screens that consume the CSV export.
type DataRequester interface {
	SetGetDataCallback(fn func(includeChangelog bool) string) bool
}

// RawDataRequester is implemented by screens that consume the export table.
type RawDataRequester interface {
	SetGetRawDataCallback(fn func(includeChangelog bool) export.Table) bool
}

// Data holds four parallel columns, one entry per answerable element.
// Answers holds the changelog instead of the answer when requested.
type Data struct {
	Types     []string
	Questions []string
	Options   []any
	Answers   []any
}

// Len is the number of items described.
func (d Data) Len() int { return len(d.Types) }

// Option configures a screen at construction.
type Option func(*settings)

type settings struct {
	log   diag.Logger
	title string
}

// WithLogger injects the diagnostic sink.
func WithLogger(l diag.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(s *settings) { s.title = title }
}

func resolve(opts []Option, title string) settings {
	s := settings{title: title}
	for _, opt := range opts {
		opt(&s)
	}
	s.log = diag.Or(s.log)
	return s
}

// Base carries the state every screen shares. Screens embed it and call
// bind with themselves so paginate requests carry the right identity.
type Base struct {
	kind  string
	log   diag.Logger
	title string
	self  Screen

	uiCreated   bool
	onPaginate  func(s Screen, offset int)
	onPreloaded func()
}

func newBase(kind string, s settings) Base {
	return Base{kind: kind, log: s.log, title: s.title}
}

func (b *Base) bind(self Screen) { b.self = self }

func (b *Base) location(m string) string { return b.kind + "." + m }

func (b *Base) Title() string     { return b.title }
func (b *Base) IsUICreated() bool { return b.uiCreated }

// IsReady is true for screens without interactive content.
func (b *Base) IsReady() bool { return true }

// IsPreloaded is true for screens without resources.
func (b *Base) IsPreloaded() bool { return true }

// Preload reports completion at once.
func (b *Base) Preload() { b.sendPreloaded() }

func (b *Base) GetData(bool) Data { return Data{} }

func (b *Base) Update(tea.Msg) tea.Cmd { return nil }

func (b *Base) SetOnPreloadedCallback(fn func()) bool {
	if fn == nil {
		b.log.Error(b.location("SetOnPreloadedCallback"), "no callback given")
		return false
	}
	b.onPreloaded = fn
	return true
}

func (b *Base) sendPreloaded() {
	if b.onPreloaded == nil {
		b.log.Debug(b.location("Preload"), "no preloaded callback set")
		return
	}
	b.onPreloaded()
}

func (b *Base) SetPaginateCallback(fn func(s Screen, offset int)) bool {
	if fn == nil {
		b.log.Error(b.location("SetPaginateCallback"), "no callback given")
		return false
	}
	b.onPaginate = fn
	return true
}

// sendPaginate asks for navigation by offset. With readyRequired the
// request is dropped while the screen is not ready.
func (b *Base) sendPaginate(offset int, readyRequired bool) bool {
	if b.onPaginate == nil {
		b.log.Warn(b.location("sendPaginate"), "no paginate callback set")
		return false
	}
	if readyRequired && !b.self.IsReady() {
		b.log.Info(b.location("sendPaginate"), "screen not ready; ignoring paginate request")
		return false
	}
	b.onPaginate(b.self, offset)
	return true
}
