// Package autosave provides the debounced commit used by the note editor.
package autosave

import (
	"sync"
	"time"
)

// DefaultDelay is how long the editor waits after the last keystroke
const DefaultDelay = time.Second

// Debouncer runs the most recently scheduled function once the delay has
// passed without another Schedule call. It is safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
	stopped bool
}

// New returns a Debouncer. A non-positive delay falls back to DefaultDelay.
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured quiet period
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule replaces any pending run with fn and restarts the delay.
// Calls after Stop are ignored.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.cancelLocked()
	d.pending = fn
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.stopped || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Flush runs the pending function now, on the caller's goroutine, and
// reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	d.cancelLocked()
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a run is armed
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Cancel drops any pending run without disabling the Debouncer
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop drops any pending run and disables the Debouncer for good.
// Flush first if the last change must be kept.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.cancelLocked()
}

// cancelLocked disarms the timer. Bumping gen makes a timer that already
// fired but is waiting on mu a no-op.
func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
}
