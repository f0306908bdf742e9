package widgets

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/loop"
	"github.com/abhisek/fragebogen/internal/ui/components"
	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// MediaKind selects how a media item presents its resource.
type MediaKind int

const (
	Audio MediaKind = iota
	Video
	Image
)

func (k MediaKind) String() string {
	switch k {
	case Audio:
		return "Audio"
	case Video:
		return "Video"
	case Image:
		return "Image"
	}
	return "Unknown"
}

// MediaConfig configures a Media item.
type MediaConfig struct {
	Kind     MediaKind
	Question string
	Required bool
	// URLs are alternative sources; the first one that loads is used.
	URLs []string
	// ReadyOnError lets the item count as ready when loading finally failed.
	ReadyOnError bool
	// Duration is the playback length; for images, how long they are shown.
	Duration time.Duration
	// Repeatable adds a replay button.
	Repeatable  bool
	ReplayLabel string
	// Retries is how often a failed load is retried, RetryDelay apart.
	// Zero means the default; a negative value disables retries.
	Retries    int
	RetryDelay time.Duration
}

const (
	defaultMediaRetries    = 2
	defaultMediaRetryDelay = time.Second
	mediaTick              = 250 * time.Millisecond
)

// Media presents audio, video or an image. It fetches its resource during
// Preload and "plays" for its duration while enabled; a required media item
// is ready once played to the end.
//
// The answer is derived from playback state and is committed to the history
// on teardown and whenever it is queried while the UI exists.
type Media struct {
	element.Item

	cfg    MediaConfig
	loop   loop.Loop
	client *http.Client

	source        string
	loading       bool
	attempts      int
	stalls        int
	errorOccurred bool
	played        bool
	ended         bool

	created       time.Time
	playing       bool
	playStart     time.Time
	position      time.Duration
	startTimes    []float64
	playDurations []float64
	replays       int

	endTimer   loop.Timer
	tickTimer  loop.Timer
	retryTimer loop.Timer
}

// NewMedia creates a media item. It starts out not preloaded.
func NewMedia(cfg MediaConfig, deps Deps, opts ...element.Option) *Media {
	deps = deps.Defaults()
	if cfg.Retries == 0 {
		cfg.Retries = defaultMediaRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultMediaRetryDelay
	}
	if cfg.ReplayLabel == "" {
		cfg.ReplayLabel = "Replay"
	}

	m := &Media{cfg: cfg, loop: deps.Loop, client: deps.HTTP}
	kind := "Media" + cfg.Kind.String()
	if cfg.Repeatable {
		kind += "Repeatable"
	}
	opts = append(deps.Options(opts...), element.WithExternalResource(), element.WithReadiness(m.ready))
	m.Item = element.NewItem(kind, cfg.Question, cfg.Required, opts...)

	if len(cfg.URLs) == 0 {
		m.Log().Error(kind+".New", "no URL given")
	}
	if cfg.Kind == Image && len(cfg.URLs) > 1 {
		m.Log().Warn(kind+".New", "multiple URLs given for an image; only the first is used")
		m.cfg.URLs = cfg.URLs[:1]
	}
	return m
}

func (m *Media) ready() bool {
	if m.errorOccurred && !m.cfg.ReadyOnError {
		return false
	}
	if m.IsRequired() {
		return m.played
	}
	return true
}

// Played reports whether playback reached the end at least once.
func (m *Media) Played() bool { return m.played }

// Failed reports whether loading failed for good.
func (m *Media) Failed() bool { return m.errorOccurred }

// Source returns the URL that loaded, if any.
func (m *Media) Source() string { return m.source }

// Preload starts fetching the resource. Repeated calls while loading, or
// once loaded, fetch nothing.
func (m *Media) Preload() {
	if !m.BeginPreload() {
		return
	}
	if m.loading || m.retryTimer != nil {
		m.Log().Debug(m.Type()+".Preload", "already loading")
		return
	}
	m.fetch()
}

func (m *Media) fetch() {
	m.retryTimer = nil
	m.loading = true
	m.attempts++
	urls := append([]string(nil), m.cfg.URLs...)
	client := m.client
	m.Log().Info(m.Type()+".Preload", fmt.Sprintf("loading %v (attempt %d)", urls, m.attempts))

	go func() {
		src, err := firstReadable(client, urls)
		m.loop.Post(func() { m.onFetched(src, err) })
	}()
}

func (m *Media) onFetched(src string, err error) {
	m.loading = false
	if err == nil {
		m.source = src
		m.onLoaded()
		return
	}

	m.stalls++
	if m.attempts <= m.cfg.Retries {
		m.Log().Warn(m.Type()+".Preload", fmt.Sprintf("stalled (%d): %v", m.stalls, err))
		m.retryTimer = m.loop.AfterFunc(m.cfg.RetryDelay, m.fetch)
		m.NotifyPreloadEvent()
		return
	}

	m.errorOccurred = true
	if m.cfg.ReadyOnError {
		m.Log().Error(m.Type()+".Preload", fmt.Sprintf("giving up after %d attempts: %v", m.attempts, err))
		m.MarkPreloaded()
		m.NotifyReadyStateChanged()
		return
	}
	m.Log().Error(m.Type()+".Preload", fmt.Sprintf("giving up after %d attempts, start stays blocked: %v", m.attempts, err))
	m.NotifyPreloadEvent()
}

func (m *Media) onLoaded() {
	m.Log().Info(m.Type()+".Preload", "loaded "+m.source)
	m.MarkPreloaded()
	if m.IsUICreated() && m.IsEnabled() {
		m.play()
	}
}

// firstReadable returns the first of urls that can be read completely.
func firstReadable(client *http.Client, urls []string) (string, error) {
	var errs []error
	for _, raw := range urls {
		if err := readMedia(client, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", raw, err))
			continue
		}
		return raw, nil
	}
	if len(errs) == 0 {
		return "", errors.New("no source")
	}
	return "", errors.Join(errs...)
}

func readMedia(client *http.Client, raw string) error {
	if strings.HasPrefix(raw, "data:") {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https":
		resp, err := client.Get(raw)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	case "", "file":
		_, err := os.Stat(u.Path)
		return err
	}
	return fmt.Errorf("unsupported scheme %q", u.Scheme)
}

func (m *Media) CreateUI() element.Handle {
	m.created = m.Now()
	m.position = 0
	m.playing = false
	m.ended = false
	h := &mediaHandle{m: m}
	if m.cfg.Repeatable {
		h.replay = components.NewButton(m.cfg.ReplayLabel, m.Replay)
	}
	return m.Attach(h)
}

// SetEnabled starts playback when enabled and pauses it when disabled.
func (m *Media) SetEnabled(enabled bool) {
	if !m.IsUICreated() {
		m.Log().Warn(m.Type()+".SetEnabled", "cannot start playback without UI")
		return
	}
	m.Item.SetEnabled(enabled)
	if enabled {
		m.play()
	} else {
		m.pause()
	}
}

func (m *Media) play() {
	if !m.IsPreloaded() || m.errorOccurred || m.playing || m.ended {
		return
	}
	now := m.Now()
	m.playing = true
	m.playStart = now
	m.startTimes = append(m.startTimes, now.Sub(m.created).Seconds())
	m.commit()

	m.endTimer = m.loop.AfterFunc(m.cfg.Duration-m.position, m.onEnded)
	m.scheduleTick()
}

// scheduleTick keeps the progress display moving while playing.
func (m *Media) scheduleTick() {
	m.tickTimer = m.loop.AfterFunc(mediaTick, func() {
		if m.playing {
			m.scheduleTick()
		}
	})
}

func (m *Media) pause() {
	if !m.playing {
		return
	}
	m.position = m.currentPosition()
	m.playing = false
	m.stopTimers()
	m.commit()
}

func (m *Media) stopTimers() {
	loop.StopTimer(m.endTimer)
	loop.StopTimer(m.tickTimer)
	m.endTimer, m.tickTimer = nil, nil
}

func (m *Media) onEnded() {
	m.Log().Info(m.Type()+".onEnded", "playback finished")
	m.position = m.cfg.Duration
	m.playing = false
	m.ended = true
	m.stopTimers()
	m.played = true
	m.commit()
	m.NotifyReadyStateChanged()
	m.MarkRequired()
}

func (m *Media) currentPosition() time.Duration {
	pos := m.position
	if m.playing {
		pos += m.Now().Sub(m.playStart)
	}
	return min(pos, m.cfg.Duration)
}

// Replay restarts playback from the beginning.
func (m *Media) Replay() {
	if !m.IsUICreated() || !m.IsEnabled() {
		return
	}
	m.playDurations = append(m.playDurations, m.currentPosition().Seconds())
	m.replays++
	m.playing = false
	m.ended = false
	m.stopTimers()
	m.position = 0
	m.commit()
	m.play()
}

func (m *Media) stats() any {
	urls := append([]string(nil), m.cfg.URLs...)
	if m.cfg.Kind == Image {
		return []any{urls, m.currentPosition().Seconds()}
	}
	return []any{
		urls,
		m.cfg.Duration.Seconds(),
		m.stalls,
		m.replays,
		append([]float64{}, m.startTimes...),
		append([]float64{}, m.playDurations...),
	}
}

func (m *Media) commit() {
	m.Commit(m.stats())
}

// Answer commits the current playback state while the UI exists.
func (m *Media) Answer() any {
	if m.IsUICreated() {
		m.commit()
	}
	return m.Item.Answer()
}

// Changelog commits like Answer does.
func (m *Media) Changelog() []element.Entry {
	if m.IsUICreated() {
		m.commit()
	}
	return m.Item.Changelog()
}

// ReleaseUI stops playback and commits the answer. A pending load retry
// keeps running; it belongs to preloading, not to the UI.
func (m *Media) ReleaseUI() {
	if !m.IsUICreated() {
		return
	}
	m.pause()
	m.playDurations = append(m.playDurations, m.currentPosition().Seconds())
	m.commit()
	m.stopTimers()
	m.Item.ReleaseUI()
}

type mediaHandle struct {
	focus
	m      *Media
	replay components.Button
}

func (h *mediaHandle) Focus() tea.Cmd {
	h.focused = true
	h.replay.Focused = true
	return nil
}

func (h *mediaHandle) Blur() {
	h.focused = false
	h.replay.Focused = false
}

func (h *mediaHandle) Update(msg tea.Msg) tea.Cmd {
	if !h.m.cfg.Repeatable || !h.m.IsEnabled() {
		return nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok && h.focused && kmsg.String() == "r" {
		h.m.Replay()
		return nil
	}
	h.replay.Update(msg)
	return nil
}

func (h *mediaHandle) View(width int) string {
	m := h.m
	var body strings.Builder

	label := fmt.Sprintf("%s  %s", mediaIcon(m.cfg.Kind), m.source)
	body.WriteString(theme.Body.Render(label))
	body.WriteString("\n")

	switch {
	case m.errorOccurred:
		body.WriteString(theme.Failure.Render("could not be loaded"))
	case !m.IsPreloaded():
		body.WriteString(theme.Pending.Render("loading…"))
	default:
		pct := 1.0
		if m.cfg.Duration > 0 {
			pct = float64(m.currentPosition()) / float64(m.cfg.Duration)
		}
		body.WriteString(components.NewProgressBar("", pct, true, width-4).View())
	}

	if m.cfg.Repeatable {
		body.WriteString("\n")
		body.WriteString(h.replay.View())
	}
	return itemView(&m.Item, h.focused, m.Question(), body.String(), width)
}

func mediaIcon(k MediaKind) string {
	switch k {
	case Audio:
		return "♪"
	case Video:
		return "▶"
	}
	return "▣"
}
