package loop

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Loop driven explicitly by tests.
// Time only moves on Advance; posted callbacks only run on Drain, Advance
// or RunUntil.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	queue  []func()
	timers []*manualTimer
}

var _ Loop = (*Manual)(nil)

type manualTimer struct {
	m       *Manual
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewManual creates a manual loop whose clock starts at a fixed instant.
func NewManual() *Manual {
	return &Manual{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the virtual clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Post queues fn.
func (m *Manual) Post(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// AfterFunc registers fn to run once the virtual clock passes now+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, at: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Drain runs queued callbacks, including ones they post, until the queue is
// empty. It returns the number of callbacks run.
func (m *Manual) Drain() int {
	n := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return n
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		fn()
		n++
	}
}

// Advance moves the clock forward by d, firing due timers in deadline order
// and draining posted callbacks after each.
func (m *Manual) Advance(d time.Duration) {
	m.Drain()

	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			break
		}
		next.fired = true
		if next.at.After(m.now) {
			m.now = next.at
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
		m.Drain()
	}
	m.compact()
}

// nextDue returns the earliest live timer due at or before target.
// Callers hold m.mu.
func (m *Manual) nextDue(target time.Time) *manualTimer {
	live := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.stopped && !t.fired && !t.at.After(target) {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].at.Equal(live[j].at) {
			return live[i].seq < live[j].seq
		}
		return live[i].at.Before(live[j].at)
	})
	return live[0]
}

func (m *Manual) compact() {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			kept = append(kept, t)
		}
	}
	m.timers = kept
}

// PendingTimers returns the number of timers that have neither fired nor
// been stopped.
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// RunUntil drains the queue repeatedly until cond holds or timeout passes in
// real time. It is meant for tests whose completions come from goroutines
// doing real I/O.
func (m *Manual) RunUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		m.Drain()
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(2 * time.Millisecond)
	}
}
