package console

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner is an indeterminate progress indicator for long operations.
// It implements export.BusyIndicator.
type Spinner struct {
	out      io.Writer
	interval time.Duration

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner rendering to out
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out, interval: 100 * time.Millisecond}
}

// Show starts the spinner with message. Showing an already visible
// spinner replaces its message.
func (s *Spinner) Show(message string) {
	s.Hide()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.spin(s.bar, s.stop, s.done)
}

func (s *Spinner) spin(bar *progressbar.ProgressBar, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			_ = bar.Finish()
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

// Hide stops and clears the spinner. It is safe to call when hidden.
func (s *Spinner) Hide() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.bar, s.stop, s.done = nil, nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Visible reports whether the spinner is showing
func (s *Spinner) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bar != nil
}
