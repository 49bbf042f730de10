package playback

import (
	"context"

	"media-cutter/domain/video"
)

// Player is a preview player whose position can be sampled and moved.
// This is a port that can be implemented by different infrastructure adapters
type Player interface {
	// Position returns the current playback position
	Position(ctx context.Context) (video.Time, error)

	// Seek moves playback to t with zero tolerance
	Seek(ctx context.Context, t video.Time) error

	// Play resumes playback
	Play(ctx context.Context) error

	// Pause stops playback without moving the position
	Pause(ctx context.Context) error
}

// EndWatcher is implemented by players that hold on the last frame when
// the item ends instead of reporting a position at or past its end
type EndWatcher interface {
	// AtEnd returns true while the player is parked at the end of the item
	AtEnd(ctx context.Context) (bool, error)
}

// Loader opens a preview in a player
type Loader interface {
	Load(ctx context.Context, locator string) error
}
