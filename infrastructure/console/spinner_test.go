package console

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer written from the spinner goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_ShowHide(t *testing.T) {
	out := &syncBuffer{}
	s := NewSpinner(out)
	s.interval = time.Millisecond

	s.Show("Exporting 3.000-7.000")
	if !s.Visible() {
		t.Fatal("expected spinner to be visible")
	}
	time.Sleep(20 * time.Millisecond)
	s.Hide()

	if s.Visible() {
		t.Error("expected spinner to be hidden")
	}
	if out.String() == "" {
		t.Error("spinner rendered nothing")
	}
}

func TestSpinner_HideWhenHidden(t *testing.T) {
	s := NewSpinner(&syncBuffer{})
	s.Hide()
	s.Show("a")
	s.Show("b")
	s.Hide()
	s.Hide()
}
