package schedule

import "time"

// CancelFunc stops a scheduled task. Calling it more than once, or after the
// task has run, is a no-op.
type CancelFunc func()

// Scheduler runs deferred and periodic tasks
type Scheduler interface {
	// AfterFunc runs fn once after d
	AfterFunc(d time.Duration, fn func()) CancelFunc

	// Every runs fn every d until cancelled
	Every(d time.Duration, fn func()) CancelFunc
}
