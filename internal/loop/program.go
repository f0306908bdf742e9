package loop

import (
	"sync"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

// Msg carries a posted callback into the Bubble Tea update loop.
type Msg struct {
	fn func()
}

// Run executes the callback. The root model calls it from Update.
func (m Msg) Run() {
	if m.fn != nil {
		m.fn()
	}
}

// Program is a Loop backed by a running Bubble Tea program.
// Callbacks posted before Bind are held until the program is attached.
// Posted callbacks reach Update in the order they were posted.
type Program struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

var _ Loop = (*Program)(nil)

// NewProgram creates an unbound program loop.
func NewProgram() *Program {
	return &Program{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Bind attaches the loop to a program's Send and starts delivering queued
// callbacks. Only the first call has an effect.
func (p *Program) Bind(send func(tea.Msg)) {
	p.mu.Lock()
	if p.send != nil || p.closed {
		p.mu.Unlock()
		return
	}
	p.send = send
	p.mu.Unlock()

	go p.pump()
	p.signal()
}

// Post queues fn. It never blocks, so it may be called from inside Update.
func (p *Program) Post(fn func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.pending = append(p.pending, fn)
	p.mu.Unlock()
	p.signal()
}

// Close stops delivery. Callbacks still queued are dropped.
func (p *Program) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.pending = nil
	close(p.done)
}

func (p *Program) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// pump is the only caller of send. tea.Program.Send blocks until Update
// receives the message, so sending happens off the posting goroutine.
func (p *Program) pump() {
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
		}
		for {
			p.mu.Lock()
			if p.closed || len(p.pending) == 0 {
				p.mu.Unlock()
				break
			}
			fn := p.pending[0]
			p.pending = p.pending[1:]
			send := p.send
			p.mu.Unlock()

			send(Msg{fn: fn})
		}
	}
}

type programTimer struct {
	t       *time.Timer
	stopped atomic.Bool
}

func (pt *programTimer) Stop() bool {
	pt.t.Stop()
	// The callback swaps the same flag before running, so whoever
	// swaps first decides whether it runs.
	return !pt.stopped.Swap(true)
}

// AfterFunc schedules fn on the loop after d.
func (p *Program) AfterFunc(d time.Duration, fn func()) Timer {
	pt := &programTimer{}
	pt.t = time.AfterFunc(d, func() {
		p.Post(func() {
			if pt.stopped.Swap(true) {
				return
			}
			fn()
		})
	})
	return pt
}
