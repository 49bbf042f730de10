package clock

import (
	"sort"
	"sync"
	"time"

	"media-cutter/domain/schedule"
)

// Manual is a schedule.Scheduler driven by explicit Advance calls.
// Tasks run synchronously inside Advance, in due-time order.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks map[int]*manualTask
}

type manualTask struct {
	id     int
	due    time.Duration
	period time.Duration
	fn     func()
}

// NewManual creates a Manual scheduler at time zero
func NewManual() *Manual {
	return &Manual{tasks: make(map[int]*manualTask)}
}

func (m *Manual) add(d, period time.Duration, fn func()) schedule.CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	id := m.seq
	m.tasks[id] = &manualTask{id: id, due: m.now + d, period: period, fn: fn}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.tasks, id)
	}
}

// AfterFunc implements schedule.Scheduler
func (m *Manual) AfterFunc(d time.Duration, fn func()) schedule.CancelFunc {
	return m.add(d, 0, fn)
}

// Every implements schedule.Scheduler
func (m *Manual) Every(d time.Duration, fn func()) schedule.CancelFunc {
	return m.add(d, d, fn)
}

// Advance moves time forward by d, running every task that comes due
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}

		m.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			delete(m.tasks, next.id)
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest task due at or before target; callers hold mu
func (m *Manual) nextDue(target time.Duration) *manualTask {
	due := make([]*manualTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		if t.due <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].id < due[j].id
		}
		return due[i].due < due[j].due
	})
	return due[0]
}

// Pending returns the number of scheduled tasks
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Ensure Manual implements schedule.Scheduler
var _ schedule.Scheduler = (*Manual)(nil)
