// Package controller owns the ordered screens of a questionnaire, moves
// between them, runs the preload barrier and aggregates the answers.
package controller

import (
	"fmt"
	"time"

	"github.com/abhisek/fragebogen/internal/diag"
	"github.com/abhisek/fragebogen/internal/loop"
	"github.com/abhisek/fragebogen/internal/screen"
)

// DefaultSettleDelay is the pause between the end of preloading and the
// first screen.
const DefaultSettleDelay = 2 * time.Second

// Surface is the single mount point screens are shown in.
type Surface interface {
	// Mount shows s; the previous screen is always unmounted first.
	Mount(s screen.Screen)
	Unmount()
	// ShowPlaceholder shows content while nothing is mounted.
	ShowPlaceholder(content string)
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l diag.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithLoop sets the loop the settle timer runs on.
func WithLoop(l loop.Loop) Option {
	return func(c *Controller) { c.loop = l }
}

func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) { c.settle = d }
}

// WithOnPreloaded registers a hook run once all screens are preloaded.
func WithOnPreloaded(fn func()) Option {
	return func(c *Controller) { c.onPreloaded = fn }
}

// Controller manages the ordered list of screens.
type Controller struct {
	log    diag.Logger
	loop   loop.Loop
	settle time.Duration

	screens []screen.Screen
	surface Surface
	current int
	started bool

	onFinished  func(offset int) bool
	onPreloaded func()
	preloadDone bool
	startTimer  loop.Timer
}

// New creates a controller. Screens are added with AddScreen.
func New(opts ...Option) *Controller {
	c := &Controller{settle: DefaultSettleDelay, current: -1}
	for _, opt := range opts {
		opt(c)
	}
	c.log = diag.Or(c.log)
	return c
}

func (c *Controller) location(m string) string { return "Controller." + m }

// Init binds the render surface. Only the first call has an effect.
func (c *Controller) Init(surface Surface) {
	if c.surface != nil {
		c.log.Warn(c.location("Init"), "already initialized")
		return
	}
	if surface == nil {
		c.log.Error(c.location("Init"), "no surface given")
		return
	}
	c.surface = surface
	c.current = 0
}

func (c *Controller) initialized() bool { return c.surface != nil }

// SetCallbackScreenFinished registers the hook asked before every
// navigation; returning false vetoes it. Nil is ignored.
func (c *Controller) SetCallbackScreenFinished(fn func(offset int) bool) {
	if fn == nil {
		c.log.Warn(c.location("SetCallbackScreenFinished"), "no callback given; ignoring")
		return
	}
	c.onFinished = fn
}

// AddScreen appends s and wires its callbacks. It returns the index of
// the screen, -1 on failure.
func (c *Controller) AddScreen(s screen.Screen) int {
	if s == nil {
		c.log.Warn(c.location("AddScreen"), "screen is nil; ignoring it")
		return -1
	}
	if c.started {
		c.log.Error(c.location("AddScreen"), "screens cannot be added after start")
		return -1
	}
	c.log.Info(c.location("AddScreen"), fmt.Sprintf("appending %T", s))
	c.screens = append(c.screens, s)

	if r, ok := s.(screen.DataRequester); ok {
		r.SetGetDataCallback(c.RequestDataCSV)
	}
	if r, ok := s.(screen.RawDataRequester); ok {
		r.SetGetRawDataCallback(c.RequestDataArray)
	}
	s.SetPaginateCallback(c.NextScreen)
	return len(c.screens) - 1
}

// Screens returns the screens in order.
func (c *Controller) Screens() []screen.Screen { return c.screens }

// Start shows the current screen.
func (c *Controller) Start() {
	if !c.initialized() {
		c.log.Error(c.location("Start"), "call Init before")
		return
	}
	if c.started {
		c.log.Warn(c.location("Start"), "already started")
		return
	}
	if len(c.screens) == 0 {
		c.log.Error(c.location("Start"), "no screens")
		return
	}
	c.display()
}

// IsStarted reports whether a screen has been shown.
func (c *Controller) IsStarted() bool { return c.started }

func (c *Controller) display() {
	s := c.screens[c.current]
	c.log.Info(c.location("display"), fmt.Sprintf("displaying screen %d", c.current))
	c.started = true
	s.CreateUI()
	c.surface.Mount(s)
	s.Start()
}

// NextScreen handles a paginate request of s. Requests before Init, from
// a screen other than the current one or vetoed by the finished hook are
// dropped.
func (c *Controller) NextScreen(s screen.Screen, offset int) {
	if !c.initialized() {
		c.log.Error(c.location("NextScreen"), "call Init before")
		return
	}
	if s == nil {
		c.log.Error(c.location("NextScreen"), "got a callback without a screen")
		return
	}
	if !c.started || s != c.screens[c.current] {
		c.log.Error(c.location("NextScreen"), "got a callback from a screen that is not displayed")
		return
	}
	if c.onFinished != nil && !c.onFinished(offset) {
		c.log.Debug(c.location("NextScreen"), "vetoed by the screen finished callback")
		return
	}
	c.GoToScreenRelative(offset)
}

// GoToScreenRelative releases the current screen and shows the one offset
// positions away. Out of range targets are rejected without any change.
func (c *Controller) GoToScreenRelative(offset int) bool {
	if !c.initialized() {
		c.log.Error(c.location("GoToScreenRelative"), "call Init before")
		return false
	}
	if c.current == len(c.screens)-1 && offset == 1 {
		c.log.Warn(c.location("GoToScreenRelative"), "reached the last screen; there is no next screen")
		return false
	}
	target := c.current + offset
	if target < 0 || target >= len(c.screens) {
		c.log.Error(c.location("GoToScreenRelative"), fmt.Sprintf("there is no screen with index %d", target))
		return false
	}

	if old := c.screens[c.current]; old.IsUICreated() {
		old.ReleaseUI()
		c.surface.Unmount()
	}
	c.current = target
	c.display()
	return true
}

// GoToScreenAbsolute shows the screen at index.
func (c *Controller) GoToScreenAbsolute(index int) bool {
	return c.GoToScreenRelative(index - c.current)
}

// IsLastScreen reports whether the current screen is the last one.
func (c *Controller) IsLastScreen() bool {
	return c.current == len(c.screens)-1
}

// CurrentScreenIndex is -1 before Init.
func (c *Controller) CurrentScreenIndex() int { return c.current }

// CurrentScreen returns nil before Init.
func (c *Controller) CurrentScreen() screen.Screen {
	if c.current < 0 || c.current >= len(c.screens) {
		return nil
	}
	return c.screens[c.current]
}

// Preload shows placeholder and preloads every screen. Once all screens
// report preloaded the first screen is started after the settle delay.
func (c *Controller) Preload(placeholder string) {
	if !c.initialized() {
		c.log.Error(c.location("Preload"), "call Init before")
		return
	}
	c.log.Debug(c.location("Preload"), "preloading started")
	c.surface.ShowPlaceholder(placeholder)
	for _, s := range c.screens {
		s.SetOnPreloadedCallback(c.onScreenPreloaded)
		s.Preload()
	}
}

// IsPreloaded reports whether every screen is preloaded.
func (c *Controller) IsPreloaded() bool {
	for _, s := range c.screens {
		if !s.IsPreloaded() {
			return false
		}
	}
	return true
}

func (c *Controller) onScreenPreloaded() {
	if c.preloadDone || !c.IsPreloaded() {
		return
	}
	c.preloadDone = true
	c.log.Info(c.location("onScreenPreloaded"), "preloading done")
	if c.onPreloaded != nil {
		c.onPreloaded()
	}
	if c.loop == nil {
		c.Start()
		return
	}
	c.startTimer = c.loop.AfterFunc(c.settle, func() {
		c.startTimer = nil
		c.Start()
	})
}

// Stop cancels a pending start and releases the current screen.
func (c *Controller) Stop() {
	loop.StopTimer(c.startTimer)
	c.startTimer = nil
	if s := c.CurrentScreen(); s != nil && s.IsUICreated() {
		s.ReleaseUI()
		c.surface.Unmount()
	}
}
