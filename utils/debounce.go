package utils

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Debouncer defers a call until input has been quiet for a fixed delay.
// At most one call is pending at a time. Each scheduled call gets a
// sequence number; only the latest one is ever allowed to run or publish.
type Debouncer struct {
	mu    sync.Mutex
	clock clock.Clock
	delay time.Duration
	timer *clock.Timer
	seq   uint64
}

// NewDebouncer returns a Debouncer on the given clock. A nil clock means
// the wall clock.
func NewDebouncer(delay time.Duration, clk clock.Clock) *Debouncer {
	if clk == nil {
		clk = clock.New()
	}
	return &Debouncer{clock: clk, delay: delay}
}

// Schedule cancels any pending call and schedules fn. fn receives the
// sequence number it was scheduled under.
func (d *Debouncer) Schedule(fn func(seq uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.delay, func() {
		if !d.IsLatest(seq) {
			return
		}
		fn(seq)
	})
	return seq
}

// Cancel drops the pending call, if any, and invalidates results of a call
// that is already running. It returns the sequence number it issued, which
// a caller running its own evaluation can check with IsLatest.
func (d *Debouncer) Cancel() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	return d.seq
}

// IsLatest reports whether seq is the most recently issued sequence number.
func (d *Debouncer) IsLatest(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return seq == d.seq
}
