package components

import (
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// TextInput wraps bubbles/textinput. Edits are committed the way an HTML
// change event fires: on enter, or when focus leaves a modified field.
type TextInput struct {
	Model     textinput.Model
	committed string
	invalid   bool
}

// NewTextInput creates a new styled text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti}
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor and reports whether a pending edit was committed.
func (t *TextInput) Blur() bool {
	t.Model.Blur()
	return t.commit()
}

// Update forwards the message and reports whether it committed an edit.
func (t *TextInput) Update(msg tea.Msg) (bool, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return t.commit(), nil
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return false, cmd
}

func (t *TextInput) commit() bool {
	v := t.Model.Value()
	if v == t.committed {
		return false
	}
	t.committed = v
	return true
}

// SetValue restores a previous answer without committing it again.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
	t.committed = v
}

// Value returns the current input value.
func (t *TextInput) Value() string {
	return t.Model.Value()
}

// MarkInvalid flags the current value as rejected.
func (t *TextInput) MarkInvalid(invalid bool) {
	t.invalid = invalid
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.invalid {
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// TextArea wraps bubbles/textarea with the same commit rule as TextInput,
// except that enter inserts a newline and only leaving the field commits.
type TextArea struct {
	Model     textarea.Model
	committed string
}

// NewTextArea creates a text area with the given size in cells.
func NewTextArea(placeholder string, rows, cols int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetWidth(cols)
	ta.SetHeight(rows)
	return TextArea{Model: ta}
}

func (t *TextArea) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor and reports whether a pending edit was committed.
func (t *TextArea) Blur() bool {
	t.Model.Blur()
	v := t.Model.Value()
	if v == t.committed {
		return false
	}
	t.committed = v
	return true
}

func (t *TextArea) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return cmd
}

func (t *TextArea) SetValue(v string) {
	t.Model.SetValue(v)
	t.committed = v
}

func (t *TextArea) Value() string {
	return t.Model.Value()
}

func (t TextArea) View() string {
	return t.Model.View()
}
