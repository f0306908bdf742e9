package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// ChoiceList is a vertical option list with a cursor. In single mode
// choosing an option replaces the selection; in multi mode it toggles it.
type ChoiceList struct {
	Options  []string
	Cursor   int
	Multi    bool
	Disabled bool
	selected map[int]bool
}

// NewChoiceList creates a list over options.
func NewChoiceList(options []string, multi bool) ChoiceList {
	return ChoiceList{
		Options:  options,
		Multi:    multi,
		selected: map[int]bool{},
	}
}

// Update moves the cursor and picks options. It reports whether the
// selection changed.
func (c *ChoiceList) Update(msg tea.Msg) bool {
	if c.Disabled {
		return false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "enter", "space":
		return c.pick(c.Cursor)
	}
	return false
}

func (c *ChoiceList) pick(i int) bool {
	if i < 0 || i >= len(c.Options) {
		return false
	}
	if c.selected == nil {
		c.selected = map[int]bool{}
	}
	if c.Multi {
		c.selected[i] = !c.selected[i]
		return true
	}
	if c.selected[i] {
		return false
	}
	c.selected = map[int]bool{i: true}
	return true
}

// Select marks the options matching values, e.g. to restore an answer.
func (c *ChoiceList) Select(values ...string) {
	c.selected = map[int]bool{}
	for _, v := range values {
		for i, opt := range c.Options {
			if opt == v {
				c.selected[i] = true
				if !c.Multi {
					c.Cursor = i
				}
			}
		}
	}
}

// Selected returns the chosen options in option order.
func (c *ChoiceList) Selected() []string {
	var out []string
	for i, opt := range c.Options {
		if c.selected[i] {
			out = append(out, opt)
		}
	}
	return out
}

// View renders the list. The cursor is shown only while focused.
func (c ChoiceList) View(focused bool) string {
	var b strings.Builder
	for i, opt := range c.Options {
		mark := "( )"
		if c.Multi {
			mark = "[ ]"
		}
		if c.selected[i] {
			mark = "(•)"
			if c.Multi {
				mark = "[x]"
			}
		}

		prefix := "  "
		if focused && i == c.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s", prefix, mark, opt)

		switch {
		case c.Disabled:
			b.WriteString(theme.Disabled.Render(line))
		case focused && i == c.Cursor:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		if i < len(c.Options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
