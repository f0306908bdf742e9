package screen

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fragebogen/internal/diag"
	"github.com/abhisek/fragebogen/internal/export"
	"github.com/abhisek/fragebogen/internal/loop"
)

func TestWaitMovesOnAfterDelay(t *testing.T) {
	l := loop.NewManual()
	s := NewWait(l, 2*time.Second, "", WithLogger(diag.Discard))
	got := paginations(t, s)

	s.CreateUI()
	assert.Contains(t, s.View(60, 10), DefaultWaitMessage)
	s.Start()
	l.Advance(time.Second)
	assert.Empty(t, *got)
	l.Advance(time.Second)
	assert.Equal(t, []int{1}, *got)
}

func TestWaitReleaseStopsTimer(t *testing.T) {
	l := loop.NewManual()
	s := NewWait(l, time.Second, "Breathe", WithLogger(diag.Discard))
	got := paginations(t, s)
	s.CreateUI()
	s.Start()
	s.ReleaseUI()

	assert.Zero(t, l.PendingTimers())
	l.Advance(5 * time.Second)
	assert.Empty(t, *got)
}

type uploadServer struct {
	*httptest.Server
	hits    atomic.Int32
	data    atomic.Value
	session atomic.Value
}

// newUploadServer fails the first `failures` requests with 500.
func newUploadServer(t *testing.T, failures int32) *uploadServer {
	t.Helper()
	u := &uploadServer{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := u.hits.Add(1)
		if n <= failures {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		u.data.Store(r.FormValue("data"))
		u.session.Store(r.Header.Get("X-Session-ID"))
		w.Write([]byte("stored"))
	}))
	t.Cleanup(u.Close)
	return u
}

func csvSource(bool) string { return "\"0\",\"T\",\"q\",\"\",\"A\"\n" }

func TestUploadPostsCSV(t *testing.T) {
	srv := newUploadServer(t, 0)
	l := loop.NewManual()
	s := NewWaitDataUpload(UploadConfig{URL: srv.URL, SessionID: "abc"}, l, srv.Client(), WithLogger(diag.Discard))
	require.True(t, s.SetGetDataCallback(csvSource))
	got := paginations(t, s)

	s.CreateUI()
	s.Start()
	require.True(t, l.RunUntil(3*time.Second, func() bool { return len(*got) == 1 }))
	assert.Equal(t, csvSource(false), srv.data.Load())
	assert.Equal(t, "abc", srv.session.Load())
	assert.Equal(t, 1, s.Attempts())
}

func TestUploadRetriesAfterFailure(t *testing.T) {
	srv := newUploadServer(t, 1)
	l := loop.NewManual()
	s := NewWaitDataUpload(UploadConfig{URL: srv.URL, RetryDelay: 100 * time.Millisecond}, l, srv.Client(), WithLogger(diag.Discard))
	s.SetGetDataCallback(csvSource)
	got := paginations(t, s)

	s.CreateUI()
	s.Start()
	require.True(t, l.RunUntil(3*time.Second, func() bool { return len(s.Notes()) == 1 }))
	assert.Contains(t, s.Notes()[0], "Retrying")
	assert.Contains(t, s.View(80, 10), "Retrying")
	assert.Empty(t, *got)

	l.Advance(100 * time.Millisecond)
	require.True(t, l.RunUntil(3*time.Second, func() bool { return len(*got) == 1 }))
	assert.Equal(t, 2, s.Attempts())
}

func TestUploadGivesUpAfterMaxAttempts(t *testing.T) {
	srv := newUploadServer(t, 100)
	l := loop.NewManual()
	s := NewWaitDataUpload(UploadConfig{
		URL:              srv.URL,
		RetryDelay:       10 * time.Millisecond,
		MaxAttempts:      2,
		NextScreenOnFail: true,
		FailMessage:      "Please tell the experimenter.",
	}, l, srv.Client(), WithLogger(diag.Discard))
	s.SetGetDataCallback(csvSource)
	got := paginations(t, s)

	s.CreateUI()
	s.Start()
	require.True(t, l.RunUntil(3*time.Second, func() bool { return len(s.Notes()) == 1 }))
	l.Advance(10 * time.Millisecond)
	require.True(t, l.RunUntil(3*time.Second, func() bool { return len(*got) == 1 }))
	assert.Equal(t, "Please tell the experimenter.", s.Notes()[1])
	assert.EqualValues(t, 2, srv.hits.Load())
	assert.Zero(t, l.PendingTimers())
}

func TestUploadReleaseCancelsRequest(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	l := loop.NewManual()
	rec := diag.NewRecorder(nil)
	s := NewWaitDataUpload(UploadConfig{URL: srv.URL, Timeout: time.Minute}, l, srv.Client(), WithLogger(rec))
	s.SetGetDataCallback(csvSource)
	got := paginations(t, s)
	s.CreateUI()
	s.Start()
	<-started
	s.ReleaseUI()

	time.Sleep(100 * time.Millisecond)
	l.Drain()
	assert.Empty(t, *got)
	assert.Empty(t, s.Notes())
	assert.Zero(t, rec.Count(diag.LevelError), "a cancelled upload is not reported")
}

func TestUploadWithoutURLIsAConfigurationError(t *testing.T) {
	rec := diag.NewRecorder(nil)
	NewWaitDataUpload(UploadConfig{}, loop.NewManual(), nil, WithLogger(rec))
	assert.Equal(t, 1, rec.Count(diag.LevelError))
}

func TestDownloadWritesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.csv")
	l := loop.NewManual()
	s := NewWaitDataDownload(DownloadConfig{Path: path}, l, WithLogger(diag.Discard))
	s.SetGetDataCallback(csvSource)
	got := paginations(t, s)

	s.CreateUI()
	s.Start()
	require.True(t, l.RunUntil(3*time.Second, func() bool { return len(*got) == 1 }))
	assert.True(t, s.Written())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, csvSource(false), string(b))
}

func TestDownloadWritesXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.xlsx")
	l := loop.NewManual()
	s := NewWaitDataDownload(DownloadConfig{Path: path}, l, WithLogger(diag.Discard))
	s.SetGetRawDataCallback(func(bool) export.Table {
		return export.Table{export.Header, {0, "T", "q", nil, "A"}}
	})
	got := paginations(t, s)

	s.CreateUI()
	s.Start()
	require.True(t, l.RunUntil(3*time.Second, func() bool { return len(*got) == 1 }))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestDownloadFailureStays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "answers.csv")
	l := loop.NewManual()
	s := NewWaitDataDownload(DownloadConfig{Path: path}, l, WithLogger(diag.Discard))
	s.SetGetDataCallback(csvSource)
	got := paginations(t, s)

	s.CreateUI()
	s.Start()
	require.True(t, l.RunUntil(3*time.Second, func() bool { return s.failure != "" }))
	assert.Empty(t, *got)
	assert.Contains(t, s.View(120, 10), "Could not write")
}

func TestDataPreviewRendersCurrentTable(t *testing.T) {
	s := NewDataPreview(false, WithLogger(diag.Discard))
	calls := 0
	require.True(t, s.SetGetRawDataCallback(func(changelog bool) export.Table {
		calls++
		assert.False(t, changelog)
		return export.Table{export.Header, {0, "TextLine", "Name?", nil, "Ada"}}
	}))
	got := paginations(t, s)

	s.CreateUI()
	assert.Equal(t, 1, calls)
	s.Start()
	view := s.View(100, 20)
	assert.Contains(t, view, "Name?")
	assert.Contains(t, view, `"Ada"`)

	s.Update(enter)
	assert.Equal(t, []int{1}, *got)

	s.ReleaseUI()
	assert.Nil(t, s.Data())
}
