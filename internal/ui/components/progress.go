package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Body.Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += theme.Hint.Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}

// Slider renders a discrete scale from lo to hi with the marker at value.
// A nil value draws the scale without a marker.
func Slider(lo, hi int, value *int, width int, captionLeft, captionRight string) string {
	steps := hi - lo + 1
	if steps < 2 {
		steps = 2
	}
	cells := width - lipgloss.Width(captionLeft) - lipgloss.Width(captionRight) - 2
	if cells < steps {
		cells = steps
	}

	var track strings.Builder
	pos := -1
	if value != nil {
		pos = (*value - lo) * (cells - 1) / (steps - 1)
	}
	for i := 0; i < cells; i++ {
		if i == pos {
			track.WriteString(theme.Selected.Render("●"))
			continue
		}
		track.WriteString(theme.Disabled.Render("─"))
	}

	return theme.Hint.Render(captionLeft) + " " + track.String() + " " + theme.Hint.Render(captionRight)
}
