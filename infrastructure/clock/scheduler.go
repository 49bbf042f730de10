package clock

import (
	"sync"
	"time"

	"media-cutter/domain/schedule"
)

// Dispatcher hands a callback to the thread that should run it
type Dispatcher interface {
	Dispatch(fn func())
}

// Scheduler implements schedule.Scheduler with runtime timers
type Scheduler struct {
	dispatcher Dispatcher
}

// SchedulerOption is a functional option for configuring Scheduler
type SchedulerOption func(*Scheduler)

// WithDispatcher runs every callback through d instead of on the timer goroutine
func WithDispatcher(d Dispatcher) SchedulerOption {
	return func(s *Scheduler) {
		s.dispatcher = d
	}
}

// NewScheduler creates a timer-backed scheduler
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) run(fn func()) {
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(fn)
		return
	}
	fn()
}

// AfterFunc implements schedule.Scheduler
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) schedule.CancelFunc {
	t := time.AfterFunc(d, func() { s.run(fn) })
	return func() { t.Stop() }
}

// Every implements schedule.Scheduler
func (s *Scheduler) Every(d time.Duration, fn func()) schedule.CancelFunc {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		for {
			select {
			case <-ticker.C:
				s.run(fn)
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// Ensure Scheduler implements schedule.Scheduler
var _ schedule.Scheduler = (*Scheduler)(nil)
