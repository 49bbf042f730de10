package eventloop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoop_RunsInOrderOnOneGoroutine(t *testing.T) {
	l := New()
	var got []int

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		l.Dispatch(func() {
			got = append(got, i)
			wg.Done()
		})
	}
	l.Dispatch(l.Stop)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	wg.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("got %v, want in-order execution", got)
		}
	}
}

func TestLoop_DispatchFromOtherGoroutines(t *testing.T) {
	l := New()
	ran := make(chan struct{})

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Dispatch(func() {
			close(ran)
			l.Stop()
		})
	}()

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	select {
	case <-ran:
	default:
		t.Fatal("dispatched func did not run")
	}
}

func TestLoop_ContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want deadline exceeded", err)
	}
}

func TestLoop_DispatchAfterStopIsDropped(t *testing.T) {
	l := New()
	l.Stop()

	ran := false
	l.Dispatch(func() { ran = true })

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if ran {
		t.Error("func dispatched after Stop ran")
	}
}
