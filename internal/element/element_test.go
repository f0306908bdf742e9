package element

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fragebogen/internal/diag"
)

type textHandle string

func (h textHandle) View(int) string { return string(h) }

// stubElement is a static element with nothing to load.
type stubElement struct {
	Base
}

func (s *stubElement) CreateUI() Handle { return s.Attach(textHandle("stub")) }

// stubItem is the smallest answerable widget.
type stubItem struct {
	Item
}

func (s *stubItem) CreateUI() Handle { return s.Attach(textHandle(s.Question())) }

func newStubItem(required bool, opts ...Option) *stubItem {
	return &stubItem{Item: NewItem("stub", "How?", required, opts...)}
}

func TestEnableRequiresUI(t *testing.T) {
	e := &stubElement{Base: NewBase("stub", WithLogger(diag.Discard))}

	e.SetEnabled(true)
	assert.False(t, e.IsEnabled(), "enabling without UI must be a no-op")

	e.CreateUI()
	require.True(t, e.IsUICreated())
	e.SetEnabled(true)
	assert.True(t, e.IsEnabled())

	e.ReleaseUI()
	assert.False(t, e.IsUICreated())
	assert.False(t, e.IsEnabled(), "release must reset enabled")
}

func TestDefaultElementIsPreloadedAndSignals(t *testing.T) {
	e := &stubElement{Base: NewBase("stub")}
	assert.True(t, e.IsPreloaded())

	calls := 0
	require.True(t, e.SetOnPreloadedCallback(func() { calls++ }))
	e.Preload()
	e.Preload()
	assert.Equal(t, 2, calls, "every Preload re-signals so the owner can re-check")
	assert.True(t, e.IsPreloaded())
}

func TestSetOnPreloadedCallbackRejectsNil(t *testing.T) {
	rec := diag.NewRecorder(nil)
	e := &stubElement{Base: NewBase("stub", WithLogger(rec))}
	assert.False(t, e.SetOnPreloadedCallback(nil))
	assert.Equal(t, 1, rec.Count(diag.LevelError))
}

func TestResourceElementFlipsExactlyOnce(t *testing.T) {
	e := &stubElement{Base: NewBase("media", WithExternalResource())}
	assert.False(t, e.IsPreloaded())

	calls := 0
	e.SetOnPreloadedCallback(func() { calls++ })
	assert.True(t, e.BeginPreload())

	assert.True(t, e.MarkPreloaded())
	assert.False(t, e.MarkPreloaded())
	assert.False(t, e.MarkPreloaded())
	assert.Equal(t, 1, calls)
	assert.True(t, e.IsPreloaded())

	assert.False(t, e.BeginPreload(), "preloading a preloaded element fetches nothing")
	assert.Equal(t, 2, calls)
}

func TestRequiredItemReadiness(t *testing.T) {
	it := newStubItem(true)
	assert.False(t, it.IsReady())
	assert.Nil(t, it.Answer())

	it.SetAnswer("A")
	assert.True(t, it.IsReady())
	assert.Equal(t, "A", it.Answer())

	it.SetAnswer(nil)
	assert.False(t, it.IsReady(), "a null answer makes the item unanswered again")
	assert.Len(t, it.Changelog(), 2, "history is never rewritten")

	it.SetAnswer("B")
	assert.True(t, it.IsReady())
}

func TestOptionalItemAlwaysReady(t *testing.T) {
	it := newStubItem(false)
	assert.True(t, it.IsReady())
	assert.False(t, it.IsAnswered())
	assert.Nil(t, it.Answer())
}

func TestSetAnswerAlwaysNotifies(t *testing.T) {
	it := newStubItem(false)
	calls := 0
	it.SetOnReadyStateChangedCallback(func() { calls++ })

	it.SetAnswer(1)
	it.SetAnswer(1)
	assert.Equal(t, 2, calls)

	it.SetOnReadyStateChangedCallback(nil)
	it.SetAnswer(2)
	assert.Equal(t, 2, calls)
}

func TestCallbackSlotIsOverwritten(t *testing.T) {
	it := newStubItem(false)
	first, second := 0, 0
	it.SetOnReadyStateChangedCallback(func() { first++ })
	it.SetOnReadyStateChangedCallback(func() { second++ })

	it.SetAnswer("x")
	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}

func TestChangelogIsOrderedCopy(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	it := newStubItem(false, WithClock(clock))
	it.SetAnswer("a")
	it.SetAnswer("b")

	log := it.Changelog()
	require.Len(t, log, 2)
	assert.True(t, log[0].Time.Before(log[1].Time))
	assert.Equal(t, "a", log[0].Value)

	log[0].Value = "mutated"
	assert.Equal(t, "a", it.Changelog()[0].Value)
}

func TestEntryJSON(t *testing.T) {
	e := Entry{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Value: "yes"}
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `["2024-05-01T10:00:00Z","yes"]`, string(raw))
}

func TestAnsweredWhenAndReadinessOverrides(t *testing.T) {
	multi := newStubItem(true, WithAnsweredWhen(func(v any) bool {
		s, _ := v.([]string)
		return len(s) > 0
	}))
	multi.SetAnswer([]string{})
	assert.False(t, multi.IsReady())
	multi.SetAnswer([]string{"x"})
	assert.True(t, multi.IsReady())

	gate := false
	custom := newStubItem(true, WithReadiness(func() bool { return gate }))
	custom.SetAnswer("ignored")
	assert.False(t, custom.IsReady())
	gate = true
	assert.True(t, custom.IsReady())
}

func TestMarkRequired(t *testing.T) {
	it := newStubItem(true)
	it.CreateUI()

	it.MarkRequired()
	assert.True(t, it.RequiredMarked())

	it.SetAnswer("done")
	assert.False(t, it.RequiredMarked(), "answering clears the mark")

	it.SetAnswer(nil)
	it.MarkRequired()
	it.ReleaseUI()
	assert.False(t, it.RequiredMarked())
	assert.Equal(t, 2, len(it.Changelog()), "release keeps the answers")
}

func TestDescribe(t *testing.T) {
	static := Describe(&stubElement{Base: NewBase("stub")})
	assert.False(t, static.IsInteractive())
	assert.Nil(t, static.Answerable)

	item := Describe(newStubItem(true))
	assert.True(t, item.IsInteractive())
	assert.NotNil(t, item.Answerable)
}

func TestHiddenOption(t *testing.T) {
	e := &stubElement{Base: NewBase("sys", Hidden())}
	assert.False(t, e.IsVisible())
	e.SetVisible(true)
	assert.True(t, e.IsVisible())
}

func TestCommitSkipsUnchangedValues(t *testing.T) {
	it := newStubItem(false)
	calls := 0
	it.SetOnReadyStateChangedCallback(func() { calls++ })

	it.Commit([]any{"a.mp3", 1.5})
	it.Commit([]any{"a.mp3", 1.5})
	it.Commit([]any{"a.mp3", 2.0})

	assert.Len(t, it.Changelog(), 2)
	assert.Zero(t, calls, "commit never notifies")
}
