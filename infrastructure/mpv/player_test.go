package mpv

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"media-cutter/domain/video"
)

// mockCommander records IPC commands
type mockCommander struct {
	calls      [][]any
	reply      any
	shouldFail bool
}

func (m *mockCommander) Command(ctx context.Context, args ...any) (any, error) {
	m.calls = append(m.calls, args)
	if m.shouldFail {
		return nil, errors.New("mpv: property unavailable")
	}
	return m.reply, nil
}

func TestPlayer_PlayPause(t *testing.T) {
	m := &mockCommander{}
	p := NewPlayer(m)

	if err := p.Play(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.Pause(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := [][]any{
		{"set_property", "pause", false},
		{"set_property", "pause", true},
	}
	if !reflect.DeepEqual(m.calls, want) {
		t.Errorf("calls = %v, want %v", m.calls, want)
	}
}

func TestPlayer_PositionErrors(t *testing.T) {
	tests := []struct {
		name string
		m    *mockCommander
	}{
		{"ipc failure", &mockCommander{shouldFail: true}},
		{"nothing playing", &mockCommander{reply: nil}},
		{"unexpected type", &mockCommander{reply: "12.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPlayer(tt.m).Position(context.Background()); err == nil {
				t.Error("Position() expected error")
			}
		})
	}
}

func TestPlayer_SeekFailure(t *testing.T) {
	p := NewPlayer(&mockCommander{shouldFail: true})
	if err := p.Seek(context.Background(), video.Seconds(1)); err == nil {
		t.Error("Seek() expected error")
	}
}

func TestPlayer_AtEnd(t *testing.T) {
	tests := []struct {
		name    string
		m       *mockCommander
		want    bool
		wantErr bool
	}{
		{"held at end", &mockCommander{reply: true}, true, false},
		{"still playing", &mockCommander{reply: false}, false, false},
		{"nothing loaded", &mockCommander{reply: nil}, false, false},
		{"unexpected type", &mockCommander{reply: "yes"}, false, true},
		{"ipc failure", &mockCommander{shouldFail: true}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPlayer(tt.m).AtEnd(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("AtEnd() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AtEnd() = %v, want %v", got, tt.want)
			}
			want := []any{"get_property", "eof-reached"}
			if !reflect.DeepEqual(tt.m.calls[0], want) {
				t.Errorf("calls[0] = %v, want %v", tt.m.calls[0], want)
			}
		})
	}
}

func TestLaunchArgs(t *testing.T) {
	args := LaunchArgs("/tmp/x.sock")
	if args[0] != "--input-ipc-server=/tmp/x.sock" {
		t.Errorf("LaunchArgs()[0] = %q", args[0])
	}
}
