package bridge

import (
	"sync"
	"time"
)

// Debouncer collapses rapid refresh requests into a single callback after a
// quiet period. The callback is never invoked concurrently with itself from
// the debouncer; all methods are safe for concurrent use.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	seq      uint64 // invalidates stale timer callbacks
	callback func()
}

// NewDebouncer creates a debouncer that fires callback after no new calls
// have arrived for delay.
func NewDebouncer(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
	}
}

// Call schedules the callback to run after the debounce delay. Repeated
// calls within the delay restart the timer; the callback fires once after
// the final quiet period.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	currentSeq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending && d.seq == currentSeq && d.callback != nil {
			d.pending = false
			d.mu.Unlock()
			d.callback()
		} else {
			d.mu.Unlock()
		}
	})
}

// CallImmediate runs the callback now if a call is pending, canceling the
// scheduled one.
func (d *Debouncer) CallImmediate() {
	d.mu.Lock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++

	if d.pending && d.callback != nil {
		d.pending = false
		d.mu.Unlock()
		d.callback()
	} else {
		d.mu.Unlock()
	}
}

// Cancel drops any pending debounced call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// IsPending reports whether a debounced call is waiting to fire.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
