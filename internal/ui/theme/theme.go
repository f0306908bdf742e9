package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, muted so long questionnaires stay readable.
var (
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#16A34A") // Green
	Error     = lipgloss.Color("#DC2626") // Red
	Text      = lipgloss.Color("#F1F5F9") // Off-white
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Question = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Message = lipgloss.NewStyle().
		Foreground(Text).
		Align(lipgloss.Center)

	Failure = lipgloss.NewStyle().
		Foreground(Error)
)

// Layout
var (
	// Item frames an answerable element.
	Item = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	// ItemFocused frames the element receiving keys.
	ItemFocused = Item.
			BorderForeground(Primary)

	// ItemRequired frames a required element that is not answered yet.
	ItemRequired = Item.
			BorderForeground(Error)

	ItemDisabled = Item.
			Foreground(TextDim)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(TextDim)

	Ready = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Pending = lipgloss.NewStyle().
		Foreground(Accent)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(TextDim).
			Padding(0, 2)
)
