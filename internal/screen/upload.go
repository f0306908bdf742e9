package screen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fragebogen/internal/loop"
	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// ErrUploadStatus is returned when the server answers with anything but 200.
var ErrUploadStatus = errors.New("unexpected upload status")

// UploadConfig configures a WaitDataUpload screen.
type UploadConfig struct {
	URL string
	// Param is the form field carrying the CSV. Defaults to "data".
	Param string
	// Timeout bounds a single request. Defaults to 4s.
	Timeout time.Duration
	// RetryDelay is the pause after a failed attempt. Defaults to 5s.
	RetryDelay time.Duration
	// MaxAttempts bounds the attempts; 0 retries forever.
	MaxAttempts int
	// NextScreenOnFail moves on once all attempts failed.
	NextScreenOnFail bool
	Message          string
	FailMessage      string
	IncludeChangelog bool
	// SessionID is sent as the X-Session-ID header when set.
	SessionID string
}

func (c UploadConfig) withDefaults() UploadConfig {
	if c.Param == "" {
		c.Param = "data"
	}
	if c.Timeout <= 0 {
		c.Timeout = 4 * time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}
	if c.Message == "" {
		c.Message = "Uploading data. Please wait..."
	}
	if c.FailMessage == "" {
		c.FailMessage = "Upload failed."
	}
	return c
}

// WaitDataUpload posts the CSV export to a server and moves on once the
// upload succeeded.
type WaitDataUpload struct {
	Base
	dataSource

	cfg    UploadConfig
	loop   loop.Loop
	client *http.Client

	data     string
	attempts int
	gen      int
	retry    loop.Timer
	cancel   context.CancelFunc
	notes    []string
	done     bool
}

var _ Screen = (*WaitDataUpload)(nil)
var _ DataRequester = (*WaitDataUpload)(nil)

// NewWaitDataUpload creates an upload screen. A nil client uses
// http.DefaultClient; the per-request timeout comes from cfg.
func NewWaitDataUpload(cfg UploadConfig, l loop.Loop, client *http.Client, opts ...Option) *WaitDataUpload {
	cfg = cfg.withDefaults()
	if client == nil {
		client = http.DefaultClient
	}
	s := &WaitDataUpload{
		Base:       newBase("WaitDataUpload", resolve(opts, "")),
		dataSource: dataSource{includeChangelog: cfg.IncludeChangelog},
		cfg:        cfg,
		loop:       l,
		client:     client,
	}
	if cfg.URL == "" {
		s.log.Error(s.location("New"), "no upload URL given")
	}
	s.bind(s)
	return s
}

func (s *WaitDataUpload) CreateUI() {
	s.notes = nil
	s.uiCreated = true
}

func (s *WaitDataUpload) Start() {
	s.attempts = 0
	s.done = false
	s.data = s.csv(s.log, s.location("Start"))
	s.upload()
}

// Attempts returns how many uploads were started during this visit.
func (s *WaitDataUpload) Attempts() int { return s.attempts }

// Notes returns the inline failure messages shown so far.
func (s *WaitDataUpload) Notes() []string { return append([]string(nil), s.notes...) }

func (s *WaitDataUpload) upload() {
	s.retry = nil
	s.attempts++
	s.gen++
	gen := s.gen
	s.log.Info(s.location("upload"), fmt.Sprintf("attempt %d to %s", s.attempts, s.cfg.URL))

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	s.cancel = cancel
	cfg, client, data := s.cfg, s.client, s.data
	go func() {
		body, err := post(ctx, client, cfg, data)
		s.loop.Post(func() { s.onUploaded(gen, body, err) })
	}()
}

func post(ctx context.Context, client *http.Client, cfg UploadConfig, data string) (string, error) {
	form := url.Values{cfg.Param: {data}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cfg.SessionID != "" {
		req.Header.Set("X-Session-ID", cfg.SessionID)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK {
		return string(body), fmt.Errorf("%w: %d", ErrUploadStatus, resp.StatusCode)
	}
	return string(body), nil
}

func (s *WaitDataUpload) onUploaded(gen int, body string, err error) {
	if gen != s.gen || !s.uiCreated {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if err == nil {
		s.log.Info(s.location("onUploaded"), "upload successful")
		if body != "" {
			s.log.Info(s.location("onUploaded"), body)
		}
		s.done = true
		s.sendPaginate(1, false)
		return
	}

	s.log.Error(s.location("onUploaded"), fmt.Sprintf("upload to %s failed: %v", s.cfg.URL, err))
	if s.cfg.MaxAttempts > 0 && s.attempts >= s.cfg.MaxAttempts {
		s.notes = append(s.notes, s.cfg.FailMessage)
		if s.cfg.NextScreenOnFail {
			s.sendPaginate(1, false)
		}
		return
	}
	s.notes = append(s.notes, fmt.Sprintf("Upload failed (%v). Retrying in %s.", err, s.cfg.RetryDelay))
	s.retry = s.loop.AfterFunc(s.cfg.RetryDelay, s.upload)
}

func (s *WaitDataUpload) ReleaseUI() {
	s.gen++
	loop.StopTimer(s.retry)
	s.retry = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.uiCreated = false
}

func (s *WaitDataUpload) View(width, height int) string {
	lines := []string{theme.Message.Render(s.cfg.Message)}
	for _, n := range s.notes {
		lines = append(lines, theme.Failure.Render(n))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
