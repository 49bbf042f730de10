package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"media-cutter/domain/video"
)

// fakeMpv answers IPC requests on a Unix socket the way mpv does
type fakeMpv struct {
	mu       sync.Mutex
	commands [][]any
	props    map[string]any
}

func startFakeMpv(t *testing.T) (*fakeMpv, string) {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	f := &fakeMpv{props: map[string]any{"time-pos": 2.5, "pause": true}}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()
	return f, socket
}

func (f *fakeMpv) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}
		var req ipcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			return
		}

		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		resp := map[string]any{"request_id": req.RequestID, "error": "success"}
		switch req.Command[0] {
		case "get_property":
			v, ok := f.props[req.Command[1].(string)]
			if !ok {
				resp["error"] = "property not found"
			}
			resp["data"] = v
		case "set_property":
			f.props[req.Command[1].(string)] = req.Command[2]
		}
		f.mu.Unlock()

		// an unrelated event arrives before the reply
		conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
		out, _ := json.Marshal(resp)
		conn.Write(append(out, '\n'))
	}
}

func (f *fakeMpv) lastCommand() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commands[len(f.commands)-1]
}

func connect(t *testing.T, socket string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c := NewClient(socket)
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_Properties(t *testing.T) {
	fake, socket := startFakeMpv(t)
	c := connect(t, socket)
	ctx := context.Background()

	v, err := c.GetProperty(ctx, "time-pos")
	if err != nil {
		t.Fatalf("GetProperty() unexpected error: %v", err)
	}
	if v.(float64) != 2.5 {
		t.Errorf("time-pos = %v, want 2.5", v)
	}

	if err := c.SetProperty(ctx, "pause", false); err != nil {
		t.Fatalf("SetProperty() unexpected error: %v", err)
	}
	if cmd := fake.lastCommand(); cmd[0] != "set_property" || cmd[2] != false {
		t.Errorf("last command = %v", cmd)
	}

	if _, err := c.GetProperty(ctx, "chapter-list"); err == nil || !strings.Contains(err.Error(), "property not found") {
		t.Errorf("GetProperty() error = %v, want mpv error", err)
	}
}

func TestClient_NotConnected(t *testing.T) {
	c := NewClient("")
	if c.SocketPath() != DefaultSocketPath {
		t.Errorf("SocketPath() = %q", c.SocketPath())
	}
	if _, err := c.Command(context.Background(), "get_property", "pause"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Command() error = %v, want ErrNotConnected", err)
	}
}

func TestClient_ConnectTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	c := NewClient(filepath.Join(t.TempDir(), "absent.sock"))
	if err := c.Connect(ctx); !errors.Is(err, ErrSocketNotFound) {
		t.Errorf("Connect() error = %v, want ErrSocketNotFound", err)
	}
}

func TestPlayer_OverIPC(t *testing.T) {
	fake, socket := startFakeMpv(t)
	p := NewPlayer(connect(t, socket))
	ctx := context.Background()

	pos, err := p.Position(ctx)
	if err != nil {
		t.Fatalf("Position() unexpected error: %v", err)
	}
	if !pos.Equal(video.Milliseconds(2500)) {
		t.Errorf("Position() = %v, want 2.5s", pos)
	}

	if err := p.Seek(ctx, video.Seconds(4)); err != nil {
		t.Fatalf("Seek() unexpected error: %v", err)
	}
	cmd := fake.lastCommand()
	if cmd[0] != "seek" || cmd[1] != 4.0 || cmd[2] != "absolute+exact" {
		t.Errorf("seek command = %v", cmd)
	}

	if err := p.Load(ctx, "edl://in.mov,0,1"); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cmd := fake.lastCommand(); cmd[0] != "loadfile" || cmd[1] != "edl://in.mov,0,1" {
		t.Errorf("loadfile command = %v", cmd)
	}
}
