// Package widgets implements the concrete element kinds a questionnaire is
// built from: static content, free and defined input, rating scales, media,
// persistent-connection waits and hidden system items.
package widgets

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abhisek/fragebogen/internal/diag"
	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/loop"
)

// Terminal is the last known size of the terminal in cells. The root model
// updates it; system items read it when their UI is created.
type Terminal struct {
	Width  int
	Height int
}

// Deps are the collaborators widgets need besides their own settings.
type Deps struct {
	Loop     loop.Loop
	Log      diag.Logger
	Clock    func() time.Time
	HTTP     *http.Client
	Dialer   *websocket.Dialer
	Terminal *Terminal
}

// Defaults fills unset collaborators. Loop has no default.
func (d Deps) Defaults() Deps {
	d.Log = diag.Or(d.Log)
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.HTTP == nil {
		d.HTTP = &http.Client{Timeout: 30 * time.Second}
	}
	if d.Dialer == nil {
		d.Dialer = websocket.DefaultDialer
	}
	if d.Terminal == nil {
		d.Terminal = &Terminal{Width: 80, Height: 24}
	}
	return d
}

// Options returns the element options carrying the logger and clock.
func (d Deps) Options(extra ...element.Option) []element.Option {
	d = d.Defaults()
	return append([]element.Option{element.WithLogger(d.Log), element.WithClock(d.Clock)}, extra...)
}
