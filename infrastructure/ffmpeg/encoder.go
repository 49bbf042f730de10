package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"media-cutter/domain/video"

	"go.uber.org/zap"
)

// Preset selects how segments are written
type Preset string

const (
	// PresetHighest copies streams without re-encoding
	PresetHighest Preset = "highest"

	// PresetReencode re-encodes with libx264 and aac for frame-accurate cuts
	PresetReencode Preset = "reencode"
)

// ParsePreset validates a preset name; empty means PresetHighest
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case "", PresetHighest:
		return PresetHighest, nil
	case PresetReencode:
		return PresetReencode, nil
	default:
		return "", fmt.Errorf("unknown export preset %q (want %q or %q)", s, PresetHighest, PresetReencode)
	}
}

// codecArgs returns the codec flags for a preset
func (p Preset) codecArgs() []string {
	if p == PresetReencode {
		return []string{"-c:v", "libx264", "-crf", "18", "-preset", "medium", "-c:a", "aac", "-b:a", "192k"}
	}
	return []string{"-c", "copy"}
}

// Encoder implements video.Encoder using ffmpeg.
// Every segment is cut into its own part file, then the parts are joined
// with the concat demuxer.
type Encoder struct {
	ffmpegPath string
	preset     Preset
	scratchDir string
	runner     CommandRunner
	logger     *zap.Logger
}

// EncoderOption is a functional option for configuring Encoder
type EncoderOption func(*Encoder)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) EncoderOption {
	return func(e *Encoder) {
		e.ffmpegPath = path
	}
}

// WithPreset sets the export preset
func WithPreset(p Preset) EncoderOption {
	return func(e *Encoder) {
		e.preset = p
	}
}

// WithScratchDir sets where part files are written
func WithScratchDir(dir string) EncoderOption {
	return func(e *Encoder) {
		e.scratchDir = dir
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) EncoderOption {
	return func(e *Encoder) {
		e.runner = runner
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) EncoderOption {
	return func(e *Encoder) {
		e.logger = logger
	}
}

// NewEncoder creates a new FFmpeg-based encoder
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{
		ffmpegPath: "ffmpeg",
		preset:     PresetHighest,
		scratchDir: os.TempDir(),
		runner:     &ExecCommandRunner{},
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Encode implements video.Encoder
func (e *Encoder) Encode(ctx context.Context, src *video.SourceInfo, plan video.CompositionPlan, outputPath string) (video.EncodeResult, error) {
	segments, ok := plan.Segments(video.TrackVideo)
	if !ok || len(segments) == 0 {
		return video.EncodeResult{}, errors.New("plan has no video segments")
	}
	if err := ctx.Err(); err != nil {
		return video.EncodeResult{Status: video.EncodeCancelled}, nil
	}

	work, err := os.MkdirTemp(e.scratchDir, "media-cutter-parts-")
	if err != nil {
		return video.EncodeResult{}, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(work)

	withAudio := plan.Has(video.TrackAudio)
	parts := make([]string, 0, len(segments))
	for i, seg := range segments {
		part := filepath.Join(work, fmt.Sprintf("part_%03d%s", i, filepath.Ext(outputPath)))
		e.logger.Debug("cutting segment",
			zap.Int("index", i),
			zap.Stringer("segment", seg),
			zap.String("part", part),
		)

		if err := e.runner.Run(ctx, e.ffmpegPath, SegmentArgs(src.Path, seg, withAudio, e.preset, part)...); err != nil {
			return e.failure(ctx, fmt.Sprintf("segment %d: %v", i, err)), nil
		}
		parts = append(parts, part)
	}

	listPath := filepath.Join(work, "list.txt")
	if err := os.WriteFile(listPath, []byte(ConcatList(parts)), 0644); err != nil {
		return video.EncodeResult{}, fmt.Errorf("failed to write concat list: %w", err)
	}

	if err := e.runner.Run(ctx, e.ffmpegPath, ConcatArgs(listPath, outputPath)...); err != nil {
		return e.failure(ctx, fmt.Sprintf("concat: %v", err)), nil
	}

	return video.EncodeResult{Status: video.EncodeCompleted}, nil
}

// failure reports a cancelled encode as cancelled rather than failed
func (e *Encoder) failure(ctx context.Context, reason string) video.EncodeResult {
	if ctx.Err() != nil {
		return video.EncodeResult{Status: video.EncodeCancelled}
	}
	return video.EncodeResult{Status: video.EncodeFailed, Reason: reason}
}

// VerifyInstalled checks that ffmpeg is available
func (e *Encoder) VerifyInstalled(ctx context.Context) error {
	_, err := e.runner.Output(ctx, e.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// SegmentArgs builds the ffmpeg arguments that cut one segment of src into part
func SegmentArgs(src string, seg video.Segment, withAudio bool, preset Preset, part string) []string {
	args := []string{
		"-hide_banner",
		"-ss", seconds(seg.SourceRange.Start),
		"-to", seconds(seg.SourceRange.End),
		"-i", src,
		"-map", "0:v:0",
	}
	if withAudio {
		args = append(args, "-map", "0:a:0?")
	}
	args = append(args, preset.codecArgs()...)
	args = append(args,
		"-avoid_negative_ts", "make_zero",
		"-y", // Overwrite output file if it exists
		part,
	)
	return args
}

// ConcatArgs builds the ffmpeg arguments that join the parts in listPath
func ConcatArgs(listPath, outputPath string) []string {
	return []string{
		"-hide_banner",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-movflags", "+faststart",
		"-y",
		outputPath,
	}
}

// ConcatList renders a concat demuxer list file
func ConcatList(parts []string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(p, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

// seconds formats t for ffmpeg with microsecond precision
func seconds(t video.Time) string {
	return strconv.FormatFloat(t.Seconds(), 'f', 6, 64)
}

// Ensure Encoder implements video.Encoder
var _ video.Encoder = (*Encoder)(nil)
