package export

import (
	"context"
	"errors"
	"sync"

	"media-cutter/domain/video"

	"go.uber.org/zap"
)

// Status is the terminal state of an asynchronous export
type Status int

const (
	// StatusCompleted means the export was encoded and saved
	StatusCompleted Status = iota

	// StatusFailed means the export stopped on an error
	StatusFailed

	// StatusCancelled means the encode was cancelled
	StatusCancelled
)

// String returns the lowercase status name
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is delivered exactly once per Runner.Start call
type Outcome struct {
	Status Status
	Result *Result
	Err    error
}

// Exporter runs one export to completion
type Exporter interface {
	Export(ctx context.Context, input Input) (*Result, error)
}

// Dispatcher delivers callbacks on the interaction thread
type Dispatcher interface {
	Dispatch(fn func())
}

// BusyIndicator is shown while an export runs
type BusyIndicator interface {
	Show(message string)
	Hide()
}

// Runner runs exports off the interaction thread
type Runner struct {
	exporter   Exporter
	dispatcher Dispatcher
	indicator  BusyIndicator
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// RunnerOption is a functional option for configuring Runner
type RunnerOption func(*Runner)

// WithIndicator sets the busy indicator shown during an export
func WithIndicator(indicator BusyIndicator) RunnerOption {
	return func(r *Runner) {
		r.indicator = indicator
	}
}

// WithRunnerLogger sets the logger
func WithRunnerLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner delivering outcomes through dispatcher
func NewRunner(exporter Exporter, dispatcher Dispatcher, opts ...RunnerOption) *Runner {
	r := &Runner{
		exporter:   exporter,
		dispatcher: dispatcher,
		indicator:  noopIndicator{},
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start begins an export in the background. The busy indicator is shown
// before Start returns; it is hidden and done is called exactly once, on
// the dispatcher, when the export reaches a terminal state.
func (r *Runner) Start(ctx context.Context, input Input, done func(Outcome)) {
	r.indicator.Show("Exporting " + input.Selection.String())

	var once sync.Once
	deliver := func(o Outcome) {
		once.Do(func() {
			r.dispatcher.Dispatch(func() {
				r.indicator.Hide()
				done(o)
			})
		})
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error("export panicked", zap.Any("panic", p))
				deliver(Outcome{Status: StatusFailed, Err: &video.EncodeError{Reason: "internal error"}})
			}
		}()

		result, err := r.exporter.Export(ctx, input)
		deliver(classify(ctx, result, err))
	}()
}

// Wait blocks until every started export has handed its outcome to the
// dispatcher. The done callback may not have run yet when Wait returns.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func classify(ctx context.Context, result *Result, err error) Outcome {
	switch {
	case err == nil:
		return Outcome{Status: StatusCompleted, Result: result}
	case errors.Is(err, video.ErrEncodeCancelled), errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return Outcome{Status: StatusCancelled, Err: err}
	default:
		return Outcome{Status: StatusFailed, Err: err}
	}
}

type noopIndicator struct{}

func (noopIndicator) Show(string) {}
func (noopIndicator) Hide()       {}
