package widgets

import (
	"fmt"
	"regexp"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/ui/components"
)

// TextLine asks for a single line of free text. An empty line is a null
// answer.
type TextLine struct {
	element.Item
}

func NewTextLine(question string, required bool, opts ...element.Option) *TextLine {
	return &TextLine{Item: element.NewItem("TextLine", question, required, opts...)}
}

func (t *TextLine) CreateUI() element.Handle {
	h := &textLineHandle{t: t, input: components.NewTextInput("", 0)}
	if s, ok := t.Answer().(string); ok {
		h.input.SetValue(s)
	}
	return t.Attach(h)
}

func (t *TextLine) commit(v string) {
	if v == "" {
		t.SetAnswer(nil)
		return
	}
	t.SetAnswer(v)
}

type textLineHandle struct {
	focus
	t     *TextLine
	input components.TextInput
}

func (h *textLineHandle) Focus() tea.Cmd {
	h.focused = true
	return h.input.Focus()
}

func (h *textLineHandle) Blur() {
	h.focused = false
	if h.input.Blur() {
		h.t.commit(h.input.Value())
	}
}

func (h *textLineHandle) Update(msg tea.Msg) tea.Cmd {
	if !h.t.IsEnabled() {
		return nil
	}
	committed, cmd := h.input.Update(msg)
	if committed {
		h.t.commit(h.input.Value())
	}
	return cmd
}

func (h *textLineHandle) View(width int) string {
	return itemView(&h.t.Item, h.focused, h.t.Question(), h.input.View(), width)
}

// TextArea asks for multi-line free text.
type TextArea struct {
	element.Item
	rows, cols  int
	placeholder string
}

// NewTextArea creates a text area; rows and cols default to 2 and 19.
func NewTextArea(question string, required bool, rows, cols int, placeholder string, opts ...element.Option) *TextArea {
	if rows <= 0 {
		rows = 2
	}
	if cols <= 0 {
		cols = 19
	}
	return &TextArea{
		Item:        element.NewItem("TextArea", question, required, opts...),
		rows:        rows,
		cols:        cols,
		placeholder: placeholder,
	}
}

func (t *TextArea) CreateUI() element.Handle {
	h := &textAreaHandle{t: t, area: components.NewTextArea(t.placeholder, t.rows, t.cols)}
	if s, ok := t.Answer().(string); ok {
		h.area.SetValue(s)
	}
	return t.Attach(h)
}

type textAreaHandle struct {
	focus
	t    *TextArea
	area components.TextArea
}

func (h *textAreaHandle) Focus() tea.Cmd {
	h.focused = true
	return h.area.Focus()
}

func (h *textAreaHandle) Blur() {
	h.focused = false
	if h.area.Blur() {
		v := h.area.Value()
		if v == "" {
			h.t.SetAnswer(nil)
			return
		}
		h.t.SetAnswer(v)
	}
}

func (h *textAreaHandle) Update(msg tea.Msg) tea.Cmd {
	if !h.t.IsEnabled() {
		return nil
	}
	return h.area.Update(msg)
}

func (h *textAreaHandle) View(width int) string {
	return itemView(&h.t.Item, h.focused, h.t.Question(), h.area.View(), width)
}

// DateLayout is the input and answer format of Date items.
const DateLayout = "2006-01-02"

// Date asks for a calendar date within optional bounds.
type Date struct {
	element.Item
	min, max time.Time
	pattern  *regexp.Regexp
}

// NewDate creates a date item. min and max are dates in DateLayout and may
// be empty; pattern is an optional regular expression the input must match.
func NewDate(question string, required bool, min, max, pattern string, opts ...element.Option) *Date {
	d := &Date{Item: element.NewItem("Date", question, required, opts...)}
	var err error
	if min != "" {
		if d.min, err = time.Parse(DateLayout, min); err != nil {
			d.Log().Error("Date.New", fmt.Sprintf("invalid min %q: %v", min, err))
		}
	}
	if max != "" {
		if d.max, err = time.Parse(DateLayout, max); err != nil {
			d.Log().Error("Date.New", fmt.Sprintf("invalid max %q: %v", max, err))
		}
	}
	if pattern != "" {
		if d.pattern, err = regexp.Compile(pattern); err != nil {
			d.Log().Error("Date.New", fmt.Sprintf("invalid pattern %q: %v", pattern, err))
		}
	}
	d.Log().Debug("Date.New", fmt.Sprintf("min %q, max %q, pattern %q", min, max, pattern))
	return d
}

// Accept checks s against format, bounds and pattern.
func (d *Date) Accept(s string) bool {
	if d.pattern != nil && !d.pattern.MatchString(s) {
		return false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	if !d.min.IsZero() && t.Before(d.min) {
		return false
	}
	if !d.max.IsZero() && t.After(d.max) {
		return false
	}
	return true
}

func (d *Date) CreateUI() element.Handle {
	h := &dateHandle{d: d, input: components.NewTextInput("YYYY-MM-DD", len(DateLayout))}
	if s, ok := d.Answer().(string); ok {
		h.input.SetValue(s)
	}
	return d.Attach(h)
}

func (d *Date) commit(in *components.TextInput) {
	v := in.Value()
	switch {
	case v == "":
		in.MarkInvalid(false)
		d.SetAnswer(nil)
	case d.Accept(v):
		in.MarkInvalid(false)
		d.SetAnswer(v)
	default:
		in.MarkInvalid(true)
		d.Log().Debug("Date.commit", fmt.Sprintf("rejected %q", v))
	}
}

type dateHandle struct {
	focus
	d     *Date
	input components.TextInput
}

func (h *dateHandle) Focus() tea.Cmd {
	h.focused = true
	return h.input.Focus()
}

func (h *dateHandle) Blur() {
	h.focused = false
	if h.input.Blur() {
		h.d.commit(&h.input)
	}
}

func (h *dateHandle) Update(msg tea.Msg) tea.Cmd {
	if !h.d.IsEnabled() {
		return nil
	}
	committed, cmd := h.input.Update(msg)
	if committed {
		h.d.commit(&h.input)
	}
	return cmd
}

func (h *dateHandle) View(width int) string {
	return itemView(&h.d.Item, h.focused, h.d.Question(), h.input.View(), width)
}
