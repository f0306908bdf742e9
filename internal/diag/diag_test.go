package diag

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLoggerWritesLocation(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug)

	l.Warn("Controller.Init", "already initialized")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "Controller.Init", rec["location"])
	assert.Equal(t, "already initialized", rec["msg"])
}

func TestSlogLoggerFatalDoesNotExit(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo)

	l.Fatal("Screen", "no elements")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, true, rec["fatal"])
}

func TestSlogLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn)

	l.Debug("x", "hidden")
	l.Info("x", "hidden")
	assert.Zero(t, buf.Len())
}

func TestRecorderKeepsHistoryAndForwards(t *testing.T) {
	inner := NewRecorder(nil)
	r := NewRecorder(inner)

	r.Debug("a", "one")
	r.Error("b", "two")
	r.Error("c", "three")

	assert.Len(t, r.Entries(), 3)
	assert.Equal(t, 2, r.Count(LevelError))
	assert.True(t, r.Contains(LevelError, "thr"))
	assert.False(t, r.Contains(LevelWarn, "one"))
	assert.Len(t, inner.Entries(), 3)
}

func TestSetDefault(t *testing.T) {
	r := NewRecorder(nil)
	SetDefault(r)
	defer SetDefault(nil)

	Default().Info("loc", "hello")
	assert.True(t, r.Contains(LevelInfo, "hello"))

	assert.Same(t, r, Or(nil))
	other := NewRecorder(nil)
	assert.Same(t, other, Or(other))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
