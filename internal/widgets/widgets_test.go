package widgets

import (
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fragebogen/internal/diag"
	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/loop"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func typeText(h element.InputHandle, s string) {
	for _, r := range s {
		h.Update(key(string(r)))
	}
}

func testDeps(l *loop.Manual) Deps {
	return Deps{Loop: l, Log: diag.Discard, Clock: l.Now}
}

// show creates the UI, enables the element and focuses its handle.
func show(t *testing.T, e element.Element) element.InputHandle {
	t.Helper()
	h := e.CreateUI()
	e.SetEnabled(true)
	if f, ok := h.(element.Focusable); ok {
		f.Focus()
	}
	in, ok := h.(element.InputHandle)
	require.True(t, ok, "%s handle takes no input", e.Type())
	return in
}

func TestTextLineCommitsOnEnterAndBlur(t *testing.T) {
	tl := NewTextLine("Name?", true, quiet()...)
	h := show(t, tl)

	typeText(h, "Ada")
	assert.Nil(t, tl.Answer(), "typing alone does not commit")

	h.Update(key("enter"))
	assert.Equal(t, "Ada", tl.Answer())
	assert.True(t, tl.IsReady())

	h.(element.Focusable).Blur()
	assert.Len(t, tl.Changelog(), 1, "blur without edit commits nothing")

	h.(element.Focusable).Focus()
	for range 3 {
		h.Update(key("backspace"))
	}
	h.(element.Focusable).Blur()
	assert.Nil(t, tl.Answer(), "an empty line is a null answer")
	assert.False(t, tl.IsReady())
}

func TestTextLineRestoresAnswer(t *testing.T) {
	tl := NewTextLine("Name?", false, quiet()...)
	tl.SetAnswer("Grace")
	h := tl.CreateUI().(*textLineHandle)
	assert.Equal(t, "Grace", h.input.Value())
}

func TestTextLineIgnoresInputWhileDisabled(t *testing.T) {
	tl := NewTextLine("Name?", false, quiet()...)
	h := tl.CreateUI().(element.InputHandle)
	h.(element.Focusable).Focus()
	typeText(h, "x")
	h.Update(key("enter"))
	assert.Empty(t, tl.Changelog())
}

func TestDateAccept(t *testing.T) {
	d := NewDate("Born?", true, "2000-01-01", "2010-12-31", "", quiet()...)
	assert.True(t, d.Accept("2005-06-15"))
	assert.False(t, d.Accept("1999-12-31"))
	assert.False(t, d.Accept("2011-01-01"))
	assert.False(t, d.Accept("15.06.2005"))

	onlyJune := NewDate("", false, "", "", `-06-`, quiet()...)
	assert.True(t, onlyJune.Accept("2020-06-01"))
	assert.False(t, onlyJune.Accept("2020-07-01"))
}

func TestDateRejectsInvalidInput(t *testing.T) {
	d := NewDate("Born?", true, "2000-01-01", "", "", quiet()...)
	h := show(t, d)

	typeText(h, "1990-01-01")
	h.Update(key("enter"))
	assert.Nil(t, d.Answer())
	assert.False(t, d.IsReady())

	for range 10 {
		h.Update(key("backspace"))
	}
	typeText(h, "2001-02-03")
	h.Update(key("enter"))
	assert.Equal(t, "2001-02-03", d.Answer())
}

func TestDateLogsBadConstruction(t *testing.T) {
	rec := diag.NewRecorder(nil)
	NewDate("", false, "yesterday", "", "(", element.WithLogger(rec))
	assert.Equal(t, 2, rec.Count(diag.LevelError))
}

func TestDefinedOne(t *testing.T) {
	d := NewDefinedOne("Pick", true, []string{"a", "b", "c"}, quiet()...)
	assert.Equal(t, []string{"a", "b", "c"}, d.AnswerOptions())
	h := show(t, d)

	h.Update(key("down"))
	h.Update(key("enter"))
	assert.Equal(t, "b", d.Answer())

	h.Update(key("enter"))
	assert.Len(t, d.Changelog(), 1, "re-picking the selected option changes nothing")

	h.Update(key("down"))
	h.Update(key("space"))
	assert.Equal(t, "c", d.Answer())
}

func TestDefinedMultiIsSortedAndEmptyIsUnanswered(t *testing.T) {
	d := NewDefinedMulti("Pick", true, []string{"zeta", "alpha", "mid"}, quiet()...)
	h := show(t, d)

	h.Update(key("space"))
	h.Update(key("down"))
	h.Update(key("space"))
	assert.Equal(t, []string{"alpha", "zeta"}, d.Answer())
	assert.True(t, d.IsReady())

	h.Update(key("space"))
	h.Update(key("up"))
	h.Update(key("space"))
	assert.Equal(t, []string{}, d.Answer())
	assert.False(t, d.IsReady())
}

func TestDefinedLogsMissingOptions(t *testing.T) {
	rec := diag.NewRecorder(nil)
	NewSelector("", false, nil, element.WithLogger(rec))
	assert.Equal(t, 1, rec.Count(diag.LevelError))
}

func TestRange(t *testing.T) {
	r := NewRange("How many?", true, 1, 5, quiet()...)
	assert.Equal(t, []int{1, 5}, r.AnswerOptions())
	h := show(t, r)

	h.Update(key("enter"))
	assert.Equal(t, 3, r.Answer())
	for range 10 {
		h.Update(key("right"))
	}
	assert.Equal(t, 5, r.Answer())
	h.Update(key("left"))
	assert.Equal(t, 4, r.Answer())
}

func TestSelectorCycles(t *testing.T) {
	s := NewSelector("Which?", true, []string{"x", "y"}, quiet()...)
	h := show(t, s)
	assert.False(t, s.IsReady(), "starts on the empty entry")

	h.Update(key("down"))
	assert.Equal(t, "x", s.Answer())
	h.Update(key("down"))
	h.Update(key("down"))
	assert.Equal(t, "x", s.Answer())
	h.Update(key("up"))
	assert.Equal(t, "y", s.Answer())
}

func TestScaleVariants(t *testing.T) {
	tlx := NewScale(NASATLX, "Effort", true, "low", "high", nil, quiet()...)
	assert.Len(t, tlx.Points(), 21)
	assert.Equal(t, "0-20", tlx.AnswerOptions())
	assert.Equal(t, "NASATLX", tlx.Type())

	q := NewScale(Quality7pt, "Quality", true, "", "", nil, quiet()...)
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70}, q.Points())
	assert.Equal(t, DefaultQualityLabels, q.labels)

	vas := NewScale(VisualAnalogue, "Pain", false, "", "", nil, quiet()...)
	assert.Len(t, vas.Points(), 100)
	assert.Equal(t, "VisualAnalogueScale", vas.Type())
}

func TestScaleChoose(t *testing.T) {
	rec := diag.NewRecorder(nil)
	q := NewScale(Quality7pt, "Quality", true, "", "", nil, element.WithLogger(rec))
	assert.False(t, q.Choose(15))
	assert.Equal(t, 1, rec.Count(diag.LevelError))
	assert.False(t, q.IsReady())

	h := show(t, q)
	h.Update(key("right"))
	h.Update(key("enter"))
	assert.Equal(t, 50, q.Answer())
}

func TestScaleCustomLabelsNeedSeven(t *testing.T) {
	rec := diag.NewRecorder(nil)
	q := NewScale(Quality7pt, "", false, "", "", []string{"a", "b"}, element.WithLogger(rec))
	assert.Equal(t, DefaultQualityLabels, q.labels)
	assert.Equal(t, 1, rec.Count(diag.LevelWarn))
}

func TestDelayedSelectable(t *testing.T) {
	l := loop.NewManual()

	tests := []struct {
		mode          ReadyMode
		before, after bool // before and after the delay, not selected
		selectedAfter bool
	}{
		{ReadyImmediately, true, true, true},
		{ReadySelected, false, false, true},
		{ReadyNotSelected, true, true, false},
		{ReadyLoaded, false, true, true},
		{ReadyLoadedSelected, false, false, true},
		{ReadyLoadedNotSelected, false, true, false},
	}
	for _, tt := range tests {
		d := NewDelayedSelectable("cat.png", time.Second, tt.mode, testDeps(l))
		notified := 0
		d.SetOnReadyStateChangedCallback(func() { notified++ })
		h := show(t, d)
		assert.Equal(t, tt.before, d.IsReady(), "mode %d before delay", tt.mode)

		l.Advance(time.Second)
		assert.True(t, d.IsLoaded())
		assert.Equal(t, tt.after, d.IsReady(), "mode %d after delay", tt.mode)

		h.Update(key("space"))
		assert.True(t, d.IsSelected())
		assert.Equal(t, tt.selectedAfter, d.IsReady(), "mode %d selected", tt.mode)
		assert.Equal(t, 2, notified)

		d.ReleaseUI()
	}
	assert.Zero(t, l.PendingTimers())
}

func TestDelayedSelectableLocksUntilLoaded(t *testing.T) {
	l := loop.NewManual()
	d := NewDelayedSelectable("cat.png", time.Second, ReadyLoadedSelected, testDeps(l))
	h := show(t, d)

	h.Update(key("space"))
	assert.False(t, d.IsSelected())

	d.ReleaseUI()
	assert.Zero(t, l.PendingTimers(), "release stops the delay")
}

func TestSystemItemsAreHiddenAndOptional(t *testing.T) {
	term := &Terminal{Width: 120, Height: 40}
	items := []element.Answerable{
		NewConst("condition", "B", quiet()...),
		NewScreenDateTime(quiet()...),
		NewScreenDuration(quiet()...),
		NewViewportSize(term, quiet()...),
		NewFocus(quiet()...),
	}
	for _, it := range items {
		assert.False(t, it.IsVisible(), it.Type())
		it.SetVisible(true)
		assert.False(t, it.IsVisible(), "%s cannot be shown", it.Type())
		assert.False(t, it.IsRequired(), it.Type())
		assert.True(t, it.IsReady(), it.Type())
		assert.Equal(t, "", it.CreateUI().View(80))
	}

	assert.Equal(t, "B", items[0].Answer())
	assert.Equal(t, []int{120, 40}, items[3].Answer())
}

func TestScreenDateTimeAndDuration(t *testing.T) {
	l := loop.NewManual()
	opts := testDeps(l).Options()

	dt := NewScreenDateTime(opts...)
	dt.CreateUI()
	assert.Equal(t, "2024-01-01T12:00:00Z", dt.Answer())

	dur := NewScreenDuration(opts...)
	dur.CreateUI()
	l.Advance(1500 * time.Millisecond)
	assert.Nil(t, dur.Answer())
	dur.ReleaseUI()
	assert.Equal(t, int64(1500), dur.Answer())
}

func TestFocusRecordsSpans(t *testing.T) {
	l := loop.NewManual()
	f := NewFocus(testDeps(l).Options()...)
	h := f.CreateUI().(element.InputHandle)

	l.Advance(time.Second)
	h.Update(tea.BlurMsg{})
	h.Update(tea.BlurMsg{})
	l.Advance(2 * time.Second)
	h.Update(tea.FocusMsg{})
	l.Advance(500 * time.Millisecond)
	f.ReleaseUI()

	assert.Equal(t, []FocusSpan{
		{InFocus: false, Millis: 1000},
		{InFocus: true, Millis: 2000},
		{InFocus: true, Millis: 500},
	}, f.Answer())
}

func TestWaitItem(t *testing.T) {
	l := loop.NewManual()
	w := NewWait(l, 2*time.Second, testDeps(l).Options()...)
	assert.True(t, w.IsRequired())

	ready := 0
	w.SetOnReadyStateChangedCallback(func() { ready++ })
	w.CreateUI()
	w.SetEnabled(true)
	assert.False(t, w.IsReady())

	l.Advance(2 * time.Second)
	assert.True(t, w.IsReady())
	assert.Equal(t, int64(2000), w.Answer())

	w.ReleaseUI()
	w.CreateUI()
	w.ReleaseUI()
	assert.Zero(t, l.PendingTimers(), "release cancels the timer")
}

func TestRegistryBuildsEveryKind(t *testing.T) {
	l := loop.NewManual()
	deps := testDeps(l)
	attempts := 1
	for _, k := range Kinds() {
		s := Spec{
			Kind:              k,
			Question:          "q",
			Text:              "t",
			Options:           []string{"a", "b"},
			Min:               1,
			Max:               3,
			URLs:              []string{"data:,x"},
			URL:               "ws://localhost:1",
			Expect:            new(string),
			ReconnectAttempts: &attempts,
			Duration:          time.Second,
		}
		e, err := Build(s, deps)
		require.NoError(t, err, k)
		assert.NotEmpty(t, e.Type(), k)
	}
}

func TestRegistryErrors(t *testing.T) {
	_, err := Build(Spec{Kind: "canvas"}, Deps{})
	assert.True(t, errors.Is(err, ErrUnknownKind))

	_, err = Build(Spec{Kind: KindRange, Min: 3, Max: 3}, Deps{})
	assert.Error(t, err)

	_, err = Build(Spec{Kind: KindAudio}, Deps{})
	assert.Error(t, err)

	e, err := Build(Spec{Kind: KindText, Text: "hi", Hidden: true}, Deps{})
	require.NoError(t, err)
	assert.False(t, e.IsVisible())
}

// quiet silences construction logs.
func quiet() []element.Option {
	return []element.Option{element.WithLogger(diag.Discard)}
}
