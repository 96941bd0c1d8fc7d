// Package debounce coalesces bursts of calls into one trailing-edge invocation.
package debounce

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

// Debouncer runs fn once, wait after the last Trigger. At most one invocation is
// scheduled at any time. Debouncer is safe for concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	clock   clock.Clock
	wait    time.Duration
	fn      func()
	timer   *clock.Timer
	seq     uint64
	stopped bool
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock swaps the time source, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(d *Debouncer) {
		if c != nil {
			d.clock = c
		}
	}
}

// New builds a debouncer around fn.
func New(wait time.Duration, fn func(), opts ...Option) *Debouncer {
	d := &Debouncer{clock: clock.New(), wait: wait, fn: fn}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Trigger (re)starts the wait window. A pending invocation is cancelled.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked()
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(seq) })
}

// Flush runs a pending invocation immediately. It reports whether one was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.cancelLocked()
	d.mu.Unlock()
	d.fn()
	return true
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops a pending invocation without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels any pending invocation and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// A timer that already fired but has not taken the lock yet sees a stale seq.
	d.seq++
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
