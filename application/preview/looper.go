package preview

import (
	"context"
	"sync"
	"time"

	"media-cutter/domain/playback"
	"media-cutter/domain/schedule"
	"media-cutter/domain/video"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often the playback position is sampled
const DefaultPollInterval = 100 * time.Millisecond

// Looper keeps a player cycling inside a range: it polls the position and,
// once the end of the range is reached, seeks back to the start.
type Looper struct {
	player    playback.Player
	scheduler schedule.Scheduler
	interval  time.Duration
	logger    *zap.Logger

	mu       sync.Mutex
	loop     video.TimeRange
	stop     schedule.CancelFunc
	onSample func(video.Time)
}

// LooperOption is a functional option for configuring Looper
type LooperOption func(*Looper)

// WithPollInterval overrides DefaultPollInterval
func WithPollInterval(d time.Duration) LooperOption {
	return func(l *Looper) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLooperLogger sets the logger for playback errors
func WithLooperLogger(logger *zap.Logger) LooperOption {
	return func(l *Looper) {
		l.logger = logger
	}
}

// WithSampleHandler is called with every sampled position, e.g. to move a
// timeline cursor
func WithSampleHandler(fn func(video.Time)) LooperOption {
	return func(l *Looper) {
		l.onSample = fn
	}
}

// NewLooper creates a Looper cycling through loop
func NewLooper(player playback.Player, scheduler schedule.Scheduler, loop video.TimeRange, opts ...LooperOption) *Looper {
	l := &Looper{
		player:    player,
		scheduler: scheduler,
		interval:  DefaultPollInterval,
		logger:    zap.NewNop(),
		loop:      loop,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// SetRange replaces the looped range, e.g. after a preview rebuild
func (l *Looper) SetRange(r video.TimeRange) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loop = r
}

// Range returns the looped range
func (l *Looper) Range() video.TimeRange {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loop
}

// Start begins polling; calling it while running restarts the poller
func (l *Looper) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stop != nil {
		l.stop()
	}
	l.stop = l.scheduler.Every(l.interval, l.check)
}

// Stop ends polling
func (l *Looper) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stop != nil {
		l.stop()
		l.stop = nil
	}
}

// Running returns true while the poller is active
func (l *Looper) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stop != nil
}

// PositionStopped handles the scrub handle being released at t: seek there,
// play, and resume polling
func (l *Looper) PositionStopped(ctx context.Context, t video.Time) error {
	if err := l.player.Seek(ctx, t); err != nil {
		return err
	}
	if err := l.player.Play(ctx); err != nil {
		return err
	}
	l.Start()
	return nil
}

// PositionChanging handles the scrub handle moving to t: stop polling,
// pause and follow the handle
func (l *Looper) PositionChanging(ctx context.Context, t video.Time) error {
	l.Stop()
	if err := l.player.Pause(ctx); err != nil {
		return err
	}
	return l.player.Seek(ctx, t)
}

// EndReached handles the player reaching the end of the item: go back to
// the start of the range and keep playing
func (l *Looper) EndReached(ctx context.Context) error {
	r := l.Range()
	if err := l.player.Seek(ctx, r.Start); err != nil {
		return err
	}
	return l.player.Play(ctx)
}

func (l *Looper) check() {
	// a tick dispatched before Stop can still arrive afterwards
	if !l.Running() {
		return
	}

	ctx := context.Background()
	r := l.Range()

	pos, err := l.player.Position(ctx)
	if err != nil {
		l.logger.Debug("failed to sample playback position", zap.Error(err))
		return
	}

	if l.onSample != nil {
		l.onSample(pos)
	}

	if pos.Before(r.End) && !l.heldAtEnd(ctx) {
		return
	}

	// players that hold at the end of an item pause there, so play again
	if err := l.EndReached(ctx); err != nil {
		l.logger.Warn("failed to loop playback", zap.Error(err))
		return
	}
	if l.onSample != nil {
		l.onSample(r.Start)
	}
}

// heldAtEnd asks players that park on the last frame whether they are there
func (l *Looper) heldAtEnd(ctx context.Context) bool {
	w, ok := l.player.(playback.EndWatcher)
	if !ok {
		return false
	}
	atEnd, err := w.AtEnd(ctx)
	if err != nil {
		l.logger.Debug("failed to query end of item", zap.Error(err))
		return false
	}
	return atEnd
}
