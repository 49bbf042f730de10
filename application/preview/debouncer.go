package preview

import (
	"sync"
	"time"

	"media-cutter/domain/schedule"
)

// DefaultDebounce is how long selection changes must settle before a rebuild
const DefaultDebounce = 500 * time.Millisecond

// Debouncer coalesces bursts of triggers into one call after they settle.
// A new trigger cancels any pending one (last writer wins).
type Debouncer struct {
	scheduler schedule.Scheduler
	delay     time.Duration

	mu      sync.Mutex
	cancel  schedule.CancelFunc
	pending uint64
}

// NewDebouncer creates a Debouncer; a non-positive delay uses DefaultDebounce
func NewDebouncer(scheduler schedule.Scheduler, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		scheduler: scheduler,
		delay:     delay,
	}
}

// Trigger schedules fn after the delay, replacing any pending call
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}

	d.pending++
	gen := d.pending
	d.cancel = d.scheduler.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a cancel may lose the race with an already-firing timer
		if gen != d.pending {
			d.mu.Unlock()
			return
		}
		d.cancel = nil
		d.mu.Unlock()
		fn()
	})
}

// Stop cancels any pending call
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.pending++
}

// Pending returns true if a call is scheduled and has not run yet
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}
