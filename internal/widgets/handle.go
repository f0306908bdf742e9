package widgets

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/ui/components"
)

// focus is embedded by handles that take keyboard focus.
type focus struct {
	focused bool
}

func (f *focus) Focus() tea.Cmd { f.focused = true; return nil }
func (f *focus) Blur()          { f.focused = false }

// framed is what an item handle needs to know to pick its frame.
type framed interface {
	IsEnabled() bool
	RequiredMarked() bool
}

func frameState(it framed, focused bool) components.ItemState {
	switch {
	case !it.IsEnabled():
		return components.ItemDisabled
	case it.RequiredMarked():
		return components.ItemRequired
	case focused:
		return components.ItemFocused
	}
	return components.ItemIdle
}

// itemView renders question and answer area inside the item frame.
func itemView(it framed, focused bool, question, body string, width int) string {
	return components.ItemFrame(components.QuestionBlock(question, body), frameState(it, focused), width)
}

// hidden is the handle of elements that render nothing.
type hidden struct{}

func (hidden) View(int) string { return "" }
