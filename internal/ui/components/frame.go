package components

import (
	"charm.land/bubbles/v2/viewport"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// ContentWidth returns the inner width used for screen content.
// All items are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 4
	if w > 76 {
		w = 76
	}
	if w < 20 {
		w = 20
	}
	return w
}

// ItemState selects the frame an element is drawn in.
type ItemState int

const (
	ItemIdle ItemState = iota
	ItemFocused
	ItemRequired
	ItemDisabled
)

// ItemFrame wraps an element's content in a bordered box of width w.
func ItemFrame(content string, state ItemState, w int) string {
	style := theme.Item
	switch state {
	case ItemFocused:
		style = theme.ItemFocused
	case ItemRequired:
		style = theme.ItemRequired
	case ItemDisabled:
		style = theme.ItemDisabled
	}
	return style.Width(w).Render(content)
}

// QuestionBlock renders a question above its answer area.
func QuestionBlock(question, answer string) string {
	if question == "" {
		return answer
	}
	return lipgloss.JoinVertical(lipgloss.Left, theme.Question.Render(question), "", answer)
}

// CenteredMessage renders text in the middle of a w x h area.
func CenteredMessage(text string, w, h int) string {
	return lipgloss.NewStyle().
		Width(w).
		Height(h).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.Message.Render(text))
}

// Window returns height lines of content starting at line offset.
func Window(content string, offset, height int) string {
	vp := viewport.New(viewport.WithWidth(lipgloss.Width(content)), viewport.WithHeight(height))
	vp.SetContent(content)
	vp.SetYOffset(offset)
	return vp.View()
}
