package mpv

import (
	"context"
	"fmt"

	"media-cutter/domain/playback"
	"media-cutter/domain/video"
)

// commander is the part of Client the player needs
type commander interface {
	Command(ctx context.Context, args ...any) (any, error)
}

// Player implements playback.Player and playback.Loader over mpv IPC
type Player struct {
	client commander
}

// NewPlayer creates a player driving the mpv behind client
func NewPlayer(client commander) *Player {
	return &Player{client: client}
}

// Load replaces the current item with locator
func (p *Player) Load(ctx context.Context, locator string) error {
	if _, err := p.client.Command(ctx, "loadfile", locator, "replace"); err != nil {
		return fmt.Errorf("failed to load preview: %w", err)
	}
	return nil
}

// Position returns the current playback position
func (p *Player) Position(ctx context.Context) (video.Time, error) {
	v, err := p.client.Command(ctx, "get_property", "time-pos")
	if err != nil {
		return video.Time{}, err
	}
	secs, err := toFloat64(v)
	if err != nil {
		return video.Time{}, err
	}
	return video.FromSeconds(secs), nil
}

// Seek moves playback to t with an exact (non-keyframe) seek
func (p *Player) Seek(ctx context.Context, t video.Time) error {
	if _, err := p.client.Command(ctx, "seek", t.Seconds(), "absolute+exact"); err != nil {
		return fmt.Errorf("failed to seek to %s: %w", t, err)
	}
	return nil
}

// Play resumes playback
func (p *Player) Play(ctx context.Context) error {
	_, err := p.client.Command(ctx, "set_property", "pause", false)
	return err
}

// Pause stops playback without moving the position
func (p *Player) Pause(ctx context.Context) error {
	_, err := p.client.Command(ctx, "set_property", "pause", true)
	return err
}

// AtEnd reports mpv's eof-reached property. With --keep-open the position
// stops one frame short of the duration, so this is the reliable signal.
func (p *Player) AtEnd(ctx context.Context) (bool, error) {
	v, err := p.client.Command(ctx, "get_property", "eof-reached")
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected eof-reached value %v (%T)", v, v)
	}
}

// Ensure Player implements the playback ports
var (
	_ playback.Player     = (*Player)(nil)
	_ playback.Loader     = (*Player)(nil)
	_ playback.EndWatcher = (*Player)(nil)
)
