// Package loop provides the single-threaded event loop the questionnaire runs on.
//
// Every state change of screens and elements happens on the loop. Work that
// blocks (HTTP, sockets) runs in its own goroutine and hands its result back
// with Post; timers fire on the loop as well.
package loop

import "time"

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Loop schedules callbacks to run to completion one at a time.
type Loop interface {
	// Post queues fn to run on the loop. Safe to call from any goroutine.
	Post(fn func())

	// AfterFunc runs fn on the loop once d has elapsed. A timer stopped on
	// the loop never runs, even if its deadline already passed.
	AfterFunc(d time.Duration, fn func()) Timer
}

// StopTimer stops t if it is non-nil.
func StopTimer(t Timer) {
	if t != nil {
		t.Stop()
	}
}
