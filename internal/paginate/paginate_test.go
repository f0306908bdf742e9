package paginate

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fragebogen/internal/diag"
)

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	left  = tea.KeyPressMsg{Code: tea.KeyLeft}
)

func TestNextButton(t *testing.T) {
	p := Next()
	var got []int
	require.True(t, p.SetPaginateCallback(func(offset int) { got = append(got, offset) }))

	h := p.CreateUI()
	assert.True(t, p.IsUICreated())

	h.Update(enter)
	assert.Empty(t, got, "an unfocused paginator ignores keys")

	h.Focus()
	h.Update(enter)
	assert.Equal(t, []int{1}, got)
	assert.Contains(t, h.View(40), "Next")

	p.ReleaseUI()
	assert.False(t, p.IsUICreated())
}

func TestBackAndNext(t *testing.T) {
	p := NewButtons(Offset(-1), Offset(2), WithLabels("Zurück", "Weiter"))
	var got []int
	p.SetPaginateCallback(func(offset int) { got = append(got, offset) })

	h := p.CreateUI()
	h.Focus()
	h.Update(enter)
	h.Update(left)
	h.Update(enter)
	assert.Equal(t, []int{2, -1}, got, "focus starts on next")

	view := h.View(60)
	assert.True(t, strings.Index(view, "Zurück") < strings.Index(view, "Weiter"))
}

func TestConfigurationErrors(t *testing.T) {
	rec := diag.NewRecorder(nil)
	p := NewButtons(nil, nil, WithLogger(rec))
	assert.Equal(t, 1, rec.Count(diag.LevelError))

	assert.False(t, p.SetPaginateCallback(nil))
	assert.Equal(t, 2, rec.Count(diag.LevelError))

	h := p.CreateUI()
	h.Focus()
	h.Update(enter)
	assert.Equal(t, 0, rec.Count(diag.LevelWarn))
}

func TestSendWithoutCallbackWarns(t *testing.T) {
	rec := diag.NewRecorder(nil)
	p := Next(WithLogger(rec))
	h := p.CreateUI()
	h.Focus()
	h.Update(enter)
	assert.True(t, rec.Contains(diag.LevelWarn, "no paginate callback"))
}
