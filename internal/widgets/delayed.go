package widgets

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/loop"
	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// ReadyMode selects when a DelayedSelectable counts as ready.
type ReadyMode int

const (
	ReadyImmediately ReadyMode = iota
	ReadySelected
	ReadyNotSelected
	ReadyLoaded
	ReadyLoadedSelected
	ReadyLoadedNotSelected
)

// DelayedSelectable shows a placeholder for a delay and then a caption that
// can be toggled. It is interactive but records no answer.
type DelayedSelectable struct {
	element.Base
	element.Notifier

	caption string
	delay   time.Duration
	mode    ReadyMode
	loop    loop.Loop

	selected bool
	loaded   bool
	timer    loop.Timer
}

func NewDelayedSelectable(caption string, delay time.Duration, mode ReadyMode, deps Deps, opts ...element.Option) *DelayedSelectable {
	deps = deps.Defaults()
	if mode < ReadyImmediately || mode > ReadyLoadedNotSelected {
		mode = ReadyImmediately
	}
	d := &DelayedSelectable{
		Base:    element.NewBase("DelayedSelectable", deps.Options(opts...)...),
		caption: caption,
		delay:   delay,
		mode:    mode,
		loop:    deps.Loop,
	}
	d.Log().Debug("DelayedSelectable.New", fmt.Sprintf("delay %s, ready mode %d", delay, mode))
	return d
}

func (d *DelayedSelectable) IsSelected() bool { return d.selected }
func (d *DelayedSelectable) IsLoaded() bool   { return d.loaded }

func (d *DelayedSelectable) IsReady() bool {
	switch d.mode {
	case ReadySelected:
		return d.selected
	case ReadyNotSelected:
		return !d.selected
	case ReadyLoaded:
		return d.loaded
	case ReadyLoadedSelected:
		return d.loaded && d.selected
	case ReadyLoadedNotSelected:
		return d.loaded && !d.selected
	}
	return true
}

// MarkRequired is ignored; the element shows its state itself.
func (d *DelayedSelectable) MarkRequired()        {}
func (d *DelayedSelectable) RequiredMarked() bool { return false }

func (d *DelayedSelectable) CreateUI() element.Handle {
	d.loaded = false
	loop.StopTimer(d.timer)
	if d.delay > 0 {
		d.timer = d.loop.AfterFunc(d.delay, d.onLoaded)
	} else {
		d.loaded = true
	}
	return d.Attach(&delayedHandle{d: d})
}

func (d *DelayedSelectable) onLoaded() {
	d.timer = nil
	d.loaded = true
	d.NotifyReadyStateChanged()
}

// Toggle flips the selection. In the loaded modes the selection is locked
// until the caption appeared.
func (d *DelayedSelectable) Toggle() {
	if !d.IsUICreated() {
		return
	}
	if (d.mode == ReadyLoadedSelected || d.mode == ReadyLoadedNotSelected) && !d.loaded {
		return
	}
	d.selected = !d.selected
	d.NotifyReadyStateChanged()
}

func (d *DelayedSelectable) ReleaseUI() {
	d.Base.ReleaseUI()
	loop.StopTimer(d.timer)
	d.timer = nil
	d.loaded = false
}

type delayedHandle struct {
	focus
	d *DelayedSelectable
}

func (h *delayedHandle) Update(msg tea.Msg) tea.Cmd {
	if !h.d.IsEnabled() || !h.focused {
		return nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "space", "x":
			h.d.Toggle()
		}
	}
	return nil
}

func (h *delayedHandle) View(width int) string {
	box := "[ ]"
	if h.d.selected {
		box = theme.Selected.Render("[x]")
	}
	caption := theme.Pending.Render("loading…")
	if h.d.loaded {
		caption = theme.Body.Render(h.d.caption)
	}
	return itemView(h.d, h.focused, "", box+" "+caption, width)
}
