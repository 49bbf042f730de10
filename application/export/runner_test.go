package export

import (
	"context"
	"errors"
	"sync"
	"testing"

	"media-cutter/domain/video"
	"media-cutter/infrastructure/eventloop"
)

// mockExporter implements Exporter for testing
type mockExporter struct {
	result *Result
	err    error
	panic  bool
	block  chan struct{}
}

func (m *mockExporter) Export(ctx context.Context, input Input) (*Result, error) {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.panic {
		panic("boom")
	}
	return m.result, m.err
}

// mockIndicator records Show/Hide calls
type mockIndicator struct {
	mu     sync.Mutex
	events []string
}

func (m *mockIndicator) Show(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "show")
}

func (m *mockIndicator) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "hide")
}

// runOnLoop starts one export and returns every outcome delivered on the loop
func runOnLoop(t *testing.T, exporter Exporter, ctx context.Context) ([]Outcome, *mockIndicator) {
	t.Helper()

	loop := eventloop.New()
	indicator := &mockIndicator{}
	runner := NewRunner(exporter, loop, WithIndicator(indicator))

	var outcomes []Outcome
	runner.Start(ctx, Input{SourcePath: "/videos/a.mov", Selection: selection(1, 2)}, func(o Outcome) {
		outcomes = append(outcomes, o)
		loop.Stop()
	})

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("loop.Run() unexpected error: %v", err)
	}
	runner.Wait()
	return outcomes, indicator
}

func TestRunner_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		exporter   *mockExporter
		wantStatus Status
	}{
		{"completed", &mockExporter{result: &Result{OutputPath: "/tmp/out.mov"}}, StatusCompleted},
		{"failed", &mockExporter{err: &video.EncodeError{Reason: "bad codec"}}, StatusFailed},
		{"cancelled", &mockExporter{err: video.ErrEncodeCancelled}, StatusCancelled},
		{"invalid range is a failure", &mockExporter{err: video.ErrEmptyOutput}, StatusFailed},
		{"panic becomes a failure", &mockExporter{panic: true}, StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcomes, indicator := runOnLoop(t, tt.exporter, context.Background())

			if len(outcomes) != 1 {
				t.Fatalf("got %d outcomes, want exactly 1", len(outcomes))
			}
			if outcomes[0].Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s (err %v)", outcomes[0].Status, tt.wantStatus, outcomes[0].Err)
			}
			if tt.wantStatus == StatusCompleted && outcomes[0].Result == nil {
				t.Error("completed outcome without result")
			}
			if len(indicator.events) != 2 || indicator.events[0] != "show" || indicator.events[1] != "hide" {
				t.Errorf("indicator events = %v, want [show hide]", indicator.events)
			}
		})
	}
}

func TestRunner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	exporter := &mockExporter{block: make(chan struct{})}
	cancel()

	outcomes, _ := runOnLoop(t, exporter, ctx)

	if len(outcomes) != 1 || outcomes[0].Status != StatusCancelled {
		t.Fatalf("outcomes = %+v, want one cancelled outcome", outcomes)
	}
	if !errors.Is(outcomes[0].Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", outcomes[0].Err)
	}
}

func TestStatus_String(t *testing.T) {
	for status, want := range map[Status]string{
		StatusCompleted: "completed",
		StatusFailed:    "failed",
		StatusCancelled: "cancelled",
		Status(99):      "unknown",
	} {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}
