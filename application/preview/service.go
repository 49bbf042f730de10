package preview

import (
	"context"
	"fmt"
	"sync"

	"media-cutter/domain/video"

	"go.uber.org/zap"
)

// Service rebuilds the preview whenever the selection settles
type Service struct {
	composer  video.Composer
	source    *video.SourceInfo
	debouncer *Debouncer
	logger    *zap.Logger

	mu        sync.Mutex
	selection video.Selection
	current   video.Preview
	onRebuild func(video.Preview, error)
}

// ServiceOption is a functional option for configuring Service
type ServiceOption func(*Service)

// WithLogger sets the logger used for rebuild diagnostics
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRebuildHandler registers fn to be called after every rebuild attempt
// with the new preview, or with the error that kept the old one in place
func WithRebuildHandler(fn func(video.Preview, error)) ServiceOption {
	return func(s *Service) {
		s.onRebuild = fn
	}
}

// NewService creates a preview service for one inspected source
func NewService(composer video.Composer, source *video.SourceInfo, debouncer *Debouncer, opts ...ServiceOption) *Service {
	s := &Service{
		composer:  composer,
		source:    source,
		debouncer: debouncer,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SelectionChanged records sel and schedules a rebuild once changes settle
func (s *Service) SelectionChanged(sel video.Selection) {
	s.mu.Lock()
	s.selection = sel
	s.mu.Unlock()

	s.logger.Debug("selection changed",
		zap.Stringer("selection", sel),
		zap.Stringer("selected_duration", sel.Duration()),
	)

	s.debouncer.Trigger(func() {
		if _, err := s.Rebuild(context.Background()); err != nil {
			s.logger.Warn("preview rebuild failed", zap.Error(err))
		}
	})
}

// Rebuild plans the latest selection and swaps in a freshly composed
// preview, closing the previous one. On failure the previous preview stays.
func (s *Service) Rebuild(ctx context.Context) (video.Preview, error) {
	s.mu.Lock()
	sel := s.selection
	s.mu.Unlock()

	preview, err := s.build(ctx, sel)
	if err != nil {
		s.notify(nil, err)
		return nil, err
	}

	s.mu.Lock()
	previous := s.current
	s.current = preview
	s.mu.Unlock()

	if previous != nil {
		if err := previous.Close(); err != nil {
			s.logger.Warn("failed to close previous preview", zap.Error(err))
		}
	}

	s.logger.Info("preview rebuilt",
		zap.Stringer("selection", sel),
		zap.Stringer("output_duration", preview.Duration()),
	)
	s.notify(preview, nil)
	return preview, nil
}

func (s *Service) build(ctx context.Context, sel video.Selection) (video.Preview, error) {
	plan, err := video.Plan(s.source.Duration, s.source.Kinds(), sel)
	if err != nil {
		return nil, fmt.Errorf("invalid selection: %w", err)
	}

	preview, err := s.composer.Compose(ctx, s.source, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to compose preview: %w", err)
	}
	return preview, nil
}

func (s *Service) notify(p video.Preview, err error) {
	if s.onRebuild != nil {
		s.onRebuild(p, err)
	}
}

// Current returns the active preview, or nil before the first rebuild
func (s *Service) Current() video.Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Selection returns the most recently reported selection
func (s *Service) Selection() video.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Close cancels any pending rebuild and closes the active preview
func (s *Service) Close() error {
	s.debouncer.Stop()

	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		return current.Close()
	}
	return nil
}
