package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"media-cutter/domain/library"
	"media-cutter/domain/video"

	"go.uber.org/zap"
)

// OutputPrefix is prepended to every transient export file name
const OutputPrefix = "trimmed_video_"

// OutputExtension is the container extension of exported files
const OutputExtension = ".mov"

// Result contains the result of an export operation
type Result struct {
	OutputPath     string
	OutputDuration video.Time
	Plan           video.CompositionPlan
	Asset          *library.Asset
}

// Input represents the input for an export operation
type Input struct {
	SourcePath string
	Selection  video.Selection
}

// Service coordinates export operations: inspect, plan, encode, persist
type Service struct {
	inspector   video.Inspector
	encoder     video.Encoder
	store       library.AssetStore
	fileChecker video.FileChecker
	remover     video.FileRemover
	tempDir     string
	keepTemp    bool
	now         func() time.Time
	logger      *zap.Logger
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithTempDir sets where transient output files are written
func WithTempDir(dir string) Option {
	return func(s *Service) {
		s.tempDir = dir
	}
}

// WithKeepTemp keeps the transient output after it has been saved to the library
func WithKeepTemp(keep bool) Option {
	return func(s *Service) {
		s.keepTemp = keep
	}
}

// WithClock overrides time.Now for output naming (for testing)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new export Service
func NewService(
	inspector video.Inspector,
	encoder video.Encoder,
	store library.AssetStore,
	fileChecker video.FileChecker,
	remover video.FileRemover,
	opts ...Option,
) *Service {
	s := &Service{
		inspector:   inspector,
		encoder:     encoder,
		store:       store,
		fileChecker: fileChecker,
		remover:     remover,
		tempDir:     os.TempDir(),
		now:         time.Now,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// OutputPath returns the transient output path for an export started at t
func OutputPath(dir string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s%d%s", OutputPrefix, t.Unix(), OutputExtension))
}

// Prepare inspects the source and builds the authoritative plan for input.
// It is everything Export does before touching the encoder.
func (s *Service) Prepare(ctx context.Context, input Input) (*video.SourceInfo, video.CompositionPlan, error) {
	// Verify source file exists
	if !s.fileChecker.Exists(input.SourcePath) {
		return nil, video.CompositionPlan{}, fmt.Errorf("source file does not exist: %s", input.SourcePath)
	}

	src, err := s.inspector.Inspect(ctx, input.SourcePath)
	if err != nil {
		return nil, video.CompositionPlan{}, fmt.Errorf("failed to inspect source: %w", err)
	}

	if !src.HasTrack(video.TrackVideo) {
		return nil, video.CompositionPlan{}, fmt.Errorf("%w: %s has no video track", video.ErrMissingRequiredTrack, filepath.Base(input.SourcePath))
	}

	if err := input.Selection.Validate(src.Duration); err != nil {
		return nil, video.CompositionPlan{}, err
	}

	// planning a full selection is legal, exporting it is not
	if input.Selection.CoversAll(src.Duration) {
		return nil, video.CompositionPlan{}, video.ErrEmptyOutput
	}

	plan, err := video.Plan(src.Duration, src.Kinds(), input.Selection)
	if err != nil {
		return nil, video.CompositionPlan{}, err
	}

	return src, plan, nil
}

// Export cuts the selection out of the source, writes the remainder to a
// transient file and saves it to the library
func (s *Service) Export(ctx context.Context, input Input) (*Result, error) {
	started := s.now()

	src, plan, err := s.Prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	outputPath := OutputPath(s.tempDir, started)
	if err := s.remover.RemoveIfExists(outputPath); err != nil {
		return nil, fmt.Errorf("failed to clear previous output: %w", err)
	}

	s.logger.Info("exporting",
		zap.String("source", src.Path),
		zap.Stringer("selection", input.Selection),
		zap.Stringer("output_duration", plan.OutputDuration(video.TrackVideo)),
		zap.String("output", outputPath),
	)

	res, err := s.encoder.Encode(ctx, src, plan, outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", video.ErrEncodeSessionCreation, err)
	}

	switch res.Status {
	case video.EncodeCompleted:
	case video.EncodeCancelled:
		s.logger.Warn("export cancelled", zap.String("output", outputPath))
		s.discardPartial(outputPath)
		return nil, video.ErrEncodeCancelled
	default:
		s.logger.Error("export failed", zap.String("reason", res.Reason))
		s.discardPartial(outputPath)
		return nil, &video.EncodeError{Reason: res.Reason}
	}

	asset, err := s.store.Save(ctx, outputPath)
	if err != nil {
		if !errors.Is(err, library.ErrPersistFailed) {
			err = &library.PersistError{Reason: "store rejected output", Err: err}
		}
		s.logger.Error("failed to save export", zap.Error(err))
		return nil, err
	}

	if !s.keepTemp {
		if err := s.remover.RemoveIfExists(outputPath); err != nil {
			s.logger.Warn("failed to remove transient output", zap.String("output", outputPath), zap.Error(err))
		}
	}

	s.logger.Info("export saved",
		zap.String("asset", asset.Location),
		zap.Duration("elapsed", s.now().Sub(started)),
	)

	return &Result{
		OutputPath:     outputPath,
		OutputDuration: plan.OutputDuration(video.TrackVideo),
		Plan:           plan,
		Asset:          asset,
	}, nil
}

// discardPartial removes whatever the encoder left behind at outputPath
func (s *Service) discardPartial(outputPath string) {
	if err := s.remover.RemoveIfExists(outputPath); err != nil {
		s.logger.Warn("failed to remove partial output", zap.String("output", outputPath), zap.Error(err))
	}
}
