package widgets

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// Text shows plain text.
type Text struct {
	element.Base
	text string
}

func NewText(text string, opts ...element.Option) *Text {
	return &Text{Base: element.NewBase("Text", opts...), text: text}
}

func (t *Text) CreateUI() element.Handle {
	return t.Attach(textHandle{t: t})
}

type textHandle struct {
	t *Text
}

func (h textHandle) View(width int) string {
	return theme.Body.Width(width).Render(h.t.text)
}

// Markdown shows markdown rendered for the terminal.
type Markdown struct {
	element.Base
	source string
}

func NewMarkdown(source string, opts ...element.Option) *Markdown {
	return &Markdown{Base: element.NewBase("Markdown", opts...), source: source}
}

func (m *Markdown) CreateUI() element.Handle {
	return m.Attach(&markdownHandle{m: m})
}

type markdownHandle struct {
	m        *Markdown
	width    int
	rendered string
}

// View re-renders only when the width changes.
func (h *markdownHandle) View(width int) string {
	if width == h.width && h.rendered != "" {
		return h.rendered
	}
	h.width = width

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		h.m.Log().Warn("Markdown.View", "renderer unavailable: "+err.Error())
		h.rendered = h.m.source
		return h.rendered
	}
	out, err := r.Render(h.m.source)
	if err != nil {
		h.m.Log().Warn("Markdown.View", "render failed: "+err.Error())
		h.rendered = h.m.source
		return h.rendered
	}
	h.rendered = strings.Trim(out, "\n")
	return h.rendered
}
