// Package layout composes the questionnaire frame: a header with the
// screen title and progress, the screen body and a key hint footer.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fragebogen/internal/ui/components"
	"github.com/abhisek/fragebogen/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20
)

const progressWidth = 18

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the participant to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := theme.Message.Render(fmt.Sprintf(
		"Terminal too small!\n\nPlease resize to at least %d x %d\n(current %d x %d)",
		MinWidth, MinHeight, width, height,
	))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

// RenderHeader renders the product name and title on the left and the
// position in the questionnaire on the right. total == 0 hides the
// progress.
func RenderHeader(title string, index, total int, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Fragebogen")
	if title != "" {
		left += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ›  ") +
			lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	}

	right := ""
	if total > 0 {
		bar := components.NewProgressBar("", float64(index+1)/float64(total), false, progressWidth)
		right = bar.View() + " " +
			lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d/%d", index+1, total))
	}

	inner := max(width-4, 0)
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder(), false, false, true, false).
		BorderForeground(theme.Border).
		Render(left + strings.Repeat(" ", gap) + right)
}

// RenderFooter renders the key hints as a single dimmed line.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, key.Render(h.Key)+" "+desc.Render(h.Description))
	}
	sep := desc.Render("  ·  ")

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder(), true, false, false, false).
		BorderForeground(theme.Border).
		Render(strings.Join(parts, sep))
}

// ContentHeight is the height left for the body between header and footer.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// RenderFrame stacks header, body and footer; the body is padded to fill
// the rows between them.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(ContentHeight(header, footer, height)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
