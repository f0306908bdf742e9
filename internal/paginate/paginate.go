// Package paginate provides the UI fragments a screen uses to ask for
// navigation. A paginator only ever emits a relative offset; whether the
// request is honored is up to the screen and the controller.
package paginate

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fragebogen/internal/diag"
	"github.com/abhisek/fragebogen/internal/ui/components"
)

// Handle is the render target of a paginator.
type Handle interface {
	View(width int) string
	Update(msg tea.Msg) tea.Cmd
	Focus() tea.Cmd
	Blur()
}

// Paginator is a detachable navigation UI.
type Paginator interface {
	CreateUI() Handle
	ReleaseUI()
	IsUICreated() bool
	// SetPaginateCallback replaces the subscriber; nil is rejected.
	SetPaginateCallback(fn func(offset int)) bool
}

// Option configures a Buttons paginator.
type Option func(*Buttons)

// WithLabels sets the button captions.
func WithLabels(back, next string) Option {
	return func(b *Buttons) {
		b.labelBack, b.labelNext = back, next
	}
}

func WithLogger(l diag.Logger) Option {
	return func(b *Buttons) { b.log = l }
}

// Buttons shows an optional back and an optional next button.
type Buttons struct {
	back, next           *int
	labelBack, labelNext string
	log                  diag.Logger

	onPaginate func(offset int)
	handle     *buttonsHandle
}

// NewButtons creates a paginator. back and next are relative screen offsets;
// a nil offset omits its button.
func NewButtons(back, next *int, opts ...Option) *Buttons {
	b := &Buttons{back: back, next: next, labelBack: "Back", labelNext: "Next"}
	for _, opt := range opts {
		opt(b)
	}
	b.log = diag.Or(b.log)
	if back == nil && next == nil {
		b.log.Error("Buttons.New", "neither back nor next offset given; no buttons will be shown")
	}
	return b
}

// Next is the default paginator: a single next button advancing by one.
func Next(opts ...Option) *Buttons {
	one := 1
	return NewButtons(nil, &one, opts...)
}

// Offset returns a pointer to n for use with NewButtons.
func Offset(n int) *int { return &n }

func (b *Buttons) SetPaginateCallback(fn func(offset int)) bool {
	if fn == nil {
		b.log.Error("Buttons.SetPaginateCallback", "no callback given")
		return false
	}
	b.onPaginate = fn
	return true
}

func (b *Buttons) send(offset int) {
	if b.onPaginate == nil {
		b.log.Warn("Buttons.send", "no paginate callback set")
		return
	}
	b.log.Debug("Buttons.send", fmt.Sprintf("offset %d", offset))
	b.onPaginate(offset)
}

func (b *Buttons) CreateUI() Handle {
	h := &buttonsHandle{}
	if b.back != nil {
		offset := *b.back
		h.buttons = append(h.buttons, components.NewButton(b.labelBack, func() { b.send(offset) }))
	}
	if b.next != nil {
		offset := *b.next
		h.buttons = append(h.buttons, components.NewButton(b.labelNext, func() { b.send(offset) }))
		h.cursor = len(h.buttons) - 1
	}
	b.handle = h
	return h
}

func (b *Buttons) ReleaseUI() {
	b.handle = nil
}

func (b *Buttons) IsUICreated() bool { return b.handle != nil }

type buttonsHandle struct {
	buttons []components.Button
	cursor  int
	focused bool
}

func (h *buttonsHandle) Focus() tea.Cmd {
	h.focused = true
	h.sync()
	return nil
}

func (h *buttonsHandle) Blur() {
	h.focused = false
	h.sync()
}

func (h *buttonsHandle) sync() {
	for i := range h.buttons {
		h.buttons[i].Focused = h.focused && i == h.cursor
	}
}

func (h *buttonsHandle) Update(msg tea.Msg) tea.Cmd {
	if !h.focused || len(h.buttons) == 0 {
		return nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "left", "h":
			h.cursor = max(0, h.cursor-1)
			h.sync()
			return nil
		case "right", "l":
			h.cursor = min(len(h.buttons)-1, h.cursor+1)
			h.sync()
			return nil
		}
	}
	h.buttons[h.cursor].Update(msg)
	return nil
}

func (h *buttonsHandle) View(width int) string {
	views := make([]string, 0, len(h.buttons)*2)
	for i, btn := range h.buttons {
		if i > 0 {
			views = append(views, "  ")
		}
		views = append(views, btn.View())
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, views...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, row)
}
