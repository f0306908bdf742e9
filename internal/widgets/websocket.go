package widgets

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/loop"
	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// ConnState is the visible state of a WaitWebsocket item.
type ConnState int

const (
	StateIdle ConnState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateReady
	StateFailed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "idle"
}

// WebsocketConfig configures a WaitWebsocket item.
type WebsocketConfig struct {
	URL string
	// Send is written once the connection is open; nil sends nothing.
	Send *string
	// Expect is the message to wait for; nil means ready once connected.
	Expect *string
	// ReconnectAttempts bounds reconnects; negative retries forever.
	ReconnectAttempts int
	// Timeout, when positive, lets the item count as ready after it elapsed.
	Timeout time.Duration
	// ReconnectDelay separates reconnect attempts.
	ReconnectDelay time.Duration
}

const defaultReconnectDelay = time.Second

// WaitWebsocket blocks its screen until a websocket peer answered. It is
// always required; a permanent connection failure or the timeout release it.
type WaitWebsocket struct {
	element.Item

	cfg    WebsocketConfig
	loop   loop.Loop
	dialer *websocket.Dialer

	state    ConnState
	gen      int
	conn     *websocket.Conn
	cancel   context.CancelFunc
	failures int
	failed   bool
	timedOut bool

	timeoutTimer   loop.Timer
	reconnectTimer loop.Timer
}

func NewWaitWebsocket(cfg WebsocketConfig, deps Deps, opts ...element.Option) *WaitWebsocket {
	deps = deps.Defaults()
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = -cfg.Timeout
	}
	w := &WaitWebsocket{cfg: cfg, loop: deps.Loop, dialer: deps.Dialer}
	opts = append(deps.Options(opts...), element.WithReadiness(w.ready))
	w.Item = element.NewItem("WaitWebsocket", "", true, opts...)

	if cfg.Send == nil && cfg.Expect == nil {
		w.Log().Error("WaitWebsocket.New", "neither a message to send nor one to expect; the item will not do anything")
	}
	w.Log().Info("WaitWebsocket.New", fmt.Sprintf("url %s, reconnect attempts %d, timeout %s",
		cfg.URL, cfg.ReconnectAttempts, cfg.Timeout))
	return w
}

func (w *WaitWebsocket) ready() bool {
	return w.IsAnswered() || w.failed || w.timedOut
}

// State returns the connection state.
func (w *WaitWebsocket) State() ConnState { return w.state }

// Failures returns how often the connection failed so far.
func (w *WaitWebsocket) Failures() int { return w.failures }

// MarkRequired is ignored; the item shows its state itself.
func (w *WaitWebsocket) MarkRequired() {}

func (w *WaitWebsocket) CreateUI() element.Handle {
	return w.Attach(&websocketHandle{w: w})
}

// SetEnabled connects once enabled and starts the timeout.
func (w *WaitWebsocket) SetEnabled(enabled bool) {
	w.Item.SetEnabled(enabled)
	if !w.IsEnabled() {
		return
	}
	w.connect()
	if w.cfg.Timeout > 0 && w.timeoutTimer == nil && !w.ready() {
		w.timeoutTimer = w.loop.AfterFunc(w.cfg.Timeout, w.onTimeout)
	}
}

func (w *WaitWebsocket) connect() {
	if w.conn != nil || w.cancel != nil || w.state == StateReady || w.state == StateFailed {
		return
	}
	w.reconnectTimer = nil
	if w.state != StateReconnecting {
		w.state = StateConnecting
	}
	w.gen++
	gen := w.gen
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	dialer, url := w.dialer, w.cfg.URL

	go func() {
		conn, _, err := dialer.DialContext(ctx, url, nil)
		if err != nil {
			w.loop.Post(func() { w.onClosed(gen, err) })
			return
		}
		w.loop.Post(func() { w.onConnected(gen, conn) })
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				w.loop.Post(func() { w.onClosed(gen, err) })
				return
			}
			msg := string(data)
			w.loop.Post(func() { w.onMessage(gen, msg) })
		}
	}()
}

func (w *WaitWebsocket) onConnected(gen int, conn *websocket.Conn) {
	if gen != w.gen || w.state == StateReady {
		conn.Close()
		return
	}
	w.conn = conn
	w.state = StateConnected

	if w.cfg.Send != nil {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(*w.cfg.Send)); err != nil {
			w.Log().Warn("WaitWebsocket.onConnected", fmt.Sprintf("sending %q: %v", *w.cfg.Send, err))
		} else {
			w.Log().Info("WaitWebsocket.onConnected", fmt.Sprintf("connection opened and %q delivered", *w.cfg.Send))
		}
	} else {
		w.Log().Info("WaitWebsocket.onConnected", "connection opened")
	}

	if w.cfg.Expect == nil {
		w.succeed()
	}
}

func (w *WaitWebsocket) onMessage(gen int, msg string) {
	if gen != w.gen || w.state == StateReady {
		return
	}
	if w.cfg.Expect != nil && msg != *w.cfg.Expect {
		w.Log().Warn("WaitWebsocket.onMessage", fmt.Sprintf("received unknown message %q; waiting for %q", msg, *w.cfg.Expect))
		return
	}
	w.Log().Info("WaitWebsocket.onMessage", "received expected message")
	w.succeed()
}

func (w *WaitWebsocket) succeed() {
	w.state = StateReady
	loop.StopTimer(w.timeoutTimer)
	w.timeoutTimer = nil
	w.SetAnswer(w.Now().Format(time.RFC3339Nano))
}

func (w *WaitWebsocket) onClosed(gen int, err error) {
	if gen != w.gen {
		return
	}
	w.Log().Warn("WaitWebsocket.onClosed", fmt.Sprintf("connection closed: %v", err))
	w.dropConn()
	if w.ready() {
		return
	}

	w.failures++
	if w.cfg.ReconnectAttempts < 0 || w.failures <= w.cfg.ReconnectAttempts {
		w.Log().Warn("WaitWebsocket.onClosed", fmt.Sprintf("reconnecting (failure %d)", w.failures))
		w.state = StateReconnecting
		w.reconnectTimer = w.loop.AfterFunc(w.cfg.ReconnectDelay, w.connect)
		return
	}

	w.Log().Error("WaitWebsocket.onClosed", fmt.Sprintf("giving up after %d failures", w.failures))
	w.state = StateFailed
	w.failed = true
	loop.StopTimer(w.timeoutTimer)
	w.timeoutTimer = nil
	w.NotifyReadyStateChanged()
}

func (w *WaitWebsocket) onTimeout() {
	w.timeoutTimer = nil
	w.timedOut = true
	if w.failures == 0 {
		w.Log().Warn("WaitWebsocket.onTimeout", fmt.Sprintf("timed out after %s", w.cfg.Timeout))
	} else {
		w.Log().Warn("WaitWebsocket.onTimeout", fmt.Sprintf("timed out after %d failed attempt(s)", w.failures))
	}
	w.NotifyReadyStateChanged()
}

func (w *WaitWebsocket) dropConn() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
}

// ReleaseUI closes the connection and stops all timers.
func (w *WaitWebsocket) ReleaseUI() {
	w.Item.ReleaseUI()
	w.gen++
	w.dropConn()
	loop.StopTimer(w.timeoutTimer)
	loop.StopTimer(w.reconnectTimer)
	w.timeoutTimer, w.reconnectTimer = nil, nil
	if w.state != StateReady && w.state != StateFailed {
		w.state = StateIdle
	}
}

type websocketHandle struct {
	w *WaitWebsocket
}

func (h *websocketHandle) View(width int) string {
	w := h.w
	var status string
	switch w.state {
	case StateReady:
		status = theme.Ready.Render("✓ " + w.state.String())
	case StateFailed:
		status = theme.Failure.Render("✗ " + w.state.String())
	case StateIdle:
		status = theme.Hint.Render(w.state.String())
	default:
		status = theme.Pending.Render("… " + w.state.String())
	}
	if w.timedOut && w.state != StateReady {
		status += theme.Hint.Render("  (timed out)")
	}
	return itemView(w, false, "", theme.Hint.Render(w.cfg.URL)+"\n"+status, width)
}
