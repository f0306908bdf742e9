package definition

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fragebogen/internal/diag"
	"github.com/abhisek/fragebogen/internal/loop"
	"github.com/abhisek/fragebogen/internal/screen"
	"github.com/abhisek/fragebogen/internal/widgets"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	return Deps{
		Widgets: widgets.Deps{
			Loop:  loop.NewManual(),
			Log:   diag.Discard,
			Clock: func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) },
		},
		SessionID: "0f1e2d3c-aaaa-bbbb-cccc-000000000000",
		OutputDir: t.TempDir(),
	}
}

func TestLoadDemo(t *testing.T) {
	def, err := Load(filepath.Join("testdata", "demo.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Demo questionnaire", def.Title)
	require.Len(t, def.Screens, 7)
	assert.Equal(t, 1500*time.Millisecond, def.Screens[2].Items[0].Delay)
	assert.Equal(t, 2*time.Second, def.Screens[4].Delay)
	assert.Equal(t, 9, def.ItemCount())
}

func TestBuildDemo(t *testing.T) {
	def, err := Load(filepath.Join("testdata", "demo.yaml"))
	require.NoError(t, err)
	deps := testDeps(t)

	screens, err := Build(def, deps)
	require.NoError(t, err)
	require.Len(t, screens, 7)

	modes := []screen.Mode{screen.Manual, screen.Sequential, screen.Auto, screen.Manual}
	for i, want := range modes {
		el, ok := screens[i].(*screen.Elements)
		require.True(t, ok, "screen %d", i)
		assert.Equal(t, want, el.Mode(), "screen %d", i)
	}
	assert.Equal(t, "Welcome", screens[0].Title())
	assert.Len(t, screens[0].(*screen.Elements).Elements(), 3)

	assert.IsType(t, &screen.Wait{}, screens[4])
	assert.IsType(t, &screen.DataPreview{}, screens[5])

	dl, ok := screens[6].(*screen.WaitDataDownload)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(deps.OutputDir, "fragebogen-20240301-093000-0f1e2d3c.xlsx"), dl.Path())
}

func TestVersionGate(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"v1", true},
		{"1.4.2", true},
		{"v1.0.0-rc.1", true},
		{"v2.0.0", false},
		{"0.9", false},
		{"latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			_, err := Parse([]byte("version: \"" + tt.version + "\"\nscreens:\n  - kind: wait\n"))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrUnsupportedVersion)
		})
	}
}

func TestSchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no screens", "version: v1\nscreens: []\n"},
		{"unknown item kind", "version: v1\nscreens:\n  - kind: elements\n    items:\n      - kind: canvas\n"},
		{"unknown screen kind", "version: v1\nscreens:\n  - kind: carousel\n"},
		{"elements without items", "version: v1\nscreens:\n  - kind: elements\n"},
		{"upload without url", "version: v1\nscreens:\n  - kind: upload\n"},
		{"zero paginator offset", "version: v1\nscreens:\n  - kind: elements\n    items: [{kind: text}]\n    paginator: {next: 0}\n"},
		{"empty paginator", "version: v1\nscreens:\n  - kind: preview\n    paginator: {}\n"},
		{"bad duration", "version: v1\nscreens:\n  - kind: wait\n    delay: soon\n"},
		{"unknown field", "version: v1\nscreens:\n  - kind: wait\n    colour: red\n"},
		{"paginator on auto screen", "version: v1\nscreens:\n  - kind: auto\n    items: [{kind: text}]\n    paginator: {next: 1}\n"},
		{"media retries below -1", "version: v1\nscreens:\n  - kind: elements\n    items: [{kind: audio, urls: [a.wav], retries: -2}]\n"},
		{"websocket url scheme", "version: v1\nscreens:\n  - kind: elements\n    items: [{kind: websocket, url: 'http://x'}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid definition")
		})
	}
}

func TestBuildReportsItemErrors(t *testing.T) {
	def, err := Parse([]byte(`
version: v1
screens:
  - kind: wait
  - kind: elements
    items:
      - kind: text
      - kind: range
        question: How many?
        min: 5
        max: 5
`))
	require.NoError(t, err)

	_, err = Build(def, testDeps(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screen 1 (elements): item 1: range")
}

func TestMediaRetriesCanBeDisabled(t *testing.T) {
	def, err := Parse([]byte("version: v1\nscreens:\n  - kind: elements\n    items: [{kind: audio, urls: [a.wav], retries: -1}]\n"))
	require.NoError(t, err)
	assert.Equal(t, -1, def.Screens[0].Items[0].Retries)
}

func TestBuildWarnsAboutPaginatorOnAutoScreen(t *testing.T) {
	next := 1
	def := &Definition{Version: "v1", Screens: []Screen{{
		Kind:      ScreenAuto,
		Items:     []widgets.Spec{{Kind: widgets.KindText, Text: "hi"}},
		Paginator: &Paginator{Next: &next},
	}}}
	rec := diag.NewRecorder(nil)
	deps := testDeps(t)
	deps.Widgets.Log = rec

	screens, err := Build(def, deps)
	require.NoError(t, err)
	require.Len(t, screens, 1)
	assert.True(t, rec.Contains(diag.LevelWarn, "auto screens do not support pagination"))
}

func TestBuildUpload(t *testing.T) {
	def, err := Parse([]byte(`
version: v1
screens:
  - kind: upload
    url: https://example.org/store
    max_attempts: 3
    retry_delay: 1s
`))
	require.NoError(t, err)

	screens, err := Build(def, testDeps(t))
	require.NoError(t, err)
	require.Len(t, screens, 1)
	_, ok := screens[0].(screen.DataRequester)
	assert.True(t, ok)
}

func TestSchemaListsEveryItemKind(t *testing.T) {
	props := Schema()["properties"].(map[string]any)
	screens := props["screens"].(map[string]any)["items"].(map[string]any)
	items := screens["properties"].(map[string]any)["items"].(map[string]any)["items"].(map[string]any)
	enum := items["properties"].(map[string]any)["kind"].(map[string]any)["enum"].([]any)
	assert.Len(t, enum, len(widgets.Kinds()))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "read definition"))
}

func TestLoadNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v3\nscreens: [{kind: wait}]\n"), 0o644))
	_, err := Load(path)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
	assert.Contains(t, err.Error(), "broken.yaml")
}
