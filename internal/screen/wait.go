package screen

import (
	"fmt"
	"time"

	"github.com/abhisek/fragebogen/internal/loop"
	"github.com/abhisek/fragebogen/internal/ui/components"
)

// DefaultWaitMessage is shown by wait screens without a message.
const DefaultWaitMessage = "Please wait..."

// Wait shows a message and moves on after a fixed time.
type Wait struct {
	Base

	loop    loop.Loop
	delay   time.Duration
	message string
	timer   loop.Timer
}

var _ Screen = (*Wait)(nil)

// NewWait creates a wait screen. A negative delay is used as its absolute
// value; an empty message falls back to DefaultWaitMessage.
func NewWait(l loop.Loop, delay time.Duration, message string, opts ...Option) *Wait {
	s := &Wait{
		Base:    newBase("Wait", resolve(opts, "")),
		loop:    l,
		delay:   delay.Abs(),
		message: message,
	}
	if s.message == "" {
		s.message = DefaultWaitMessage
	}
	s.bind(s)
	return s
}

func (s *Wait) CreateUI() { s.uiCreated = true }

func (s *Wait) Start() {
	s.log.Info(s.location("Start"), fmt.Sprintf("next screen in %s", s.delay))
	loop.StopTimer(s.timer)
	s.timer = s.loop.AfterFunc(s.delay, func() {
		s.timer = nil
		s.sendPaginate(1, true)
	})
}

func (s *Wait) ReleaseUI() {
	loop.StopTimer(s.timer)
	s.timer = nil
	s.uiCreated = false
}

func (s *Wait) View(width, height int) string {
	return components.CenteredMessage(s.message, width, height)
}
