package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// Button is a focusable push button.
type Button struct {
	Label   string
	Focused bool
	OnPress func()
}

// NewButton creates a new button.
func NewButton(label string, onPress func()) Button {
	return Button{
		Label:   label,
		OnPress: onPress,
	}
}

// Update presses the button on enter or space while focused.
// It reports whether the button was pressed.
func (b Button) Update(msg tea.Msg) bool {
	if !b.Focused {
		return false
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	switch kmsg.String() {
	case "enter", "space":
		if b.OnPress != nil {
			b.OnPress()
		}
		return true
	}
	return false
}

// View renders the button.
func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
