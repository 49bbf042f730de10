package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"media-cutter/domain/video"
)

// ErrNoDuration is returned when ffprobe reports no usable duration
var ErrNoDuration = errors.New("source has no duration")

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	Index       int    `json:"index"`
	CodecType   string `json:"codec_type"`
	CodecName   string `json:"codec_name"`
	Duration    string `json:"duration"`
	Disposition struct {
		AttachedPic int `json:"attached_pic"`
	} `json:"disposition"`
}

type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

// Prober implements video.Inspector using ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		p.ffprobePath = path
	}
}

// WithProbeRunner sets a custom command runner (for testing)
func WithProbeRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// NewProber creates a new ffprobe-based inspector
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Inspect implements video.Inspector
func (p *Prober) Inspect(ctx context.Context, path string) (*video.SourceInfo, error) {
	out, err := p.runner.Output(ctx, p.ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", filepath.Base(path), err)
	}

	info, err := ParseProbeJSON(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	info.Path = path
	return info, nil
}

// ParseProbeJSON converts ffprobe JSON output into a SourceInfo.
// Streams other than video and audio, and cover art, are ignored.
func ParseProbeJSON(data []byte) (*video.SourceInfo, error) {
	var probe probeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &video.SourceInfo{Format: probe.Format.FormatName}

	if probe.Format.Duration != "" {
		d, err := video.ParseDecimalSeconds(probe.Format.Duration)
		if err != nil {
			return nil, fmt.Errorf("invalid container duration: %w", err)
		}
		info.Duration = d
	}

	for _, s := range probe.Streams {
		var kind video.TrackKind
		switch s.CodecType {
		case "video":
			if s.Disposition.AttachedPic == 1 {
				continue
			}
			kind = video.TrackVideo
		case "audio":
			kind = video.TrackAudio
		default:
			continue
		}

		track := video.SourceTrack{Kind: kind, Duration: info.Duration}
		if s.Duration != "" {
			d, err := video.ParseDecimalSeconds(s.Duration)
			if err != nil {
				return nil, fmt.Errorf("invalid duration for stream %d: %w", s.Index, err)
			}
			track.Duration = d
		}
		info.Tracks = append(info.Tracks, track)
	}

	// some containers only report per-stream durations
	if info.Duration.IsZero() {
		for _, t := range info.Tracks {
			info.Duration = video.MaxTime(info.Duration, t.Duration)
		}
	}

	if !info.Duration.After(video.Time{}) {
		return nil, ErrNoDuration
	}

	return info, nil
}

// Ensure Prober implements video.Inspector
var _ video.Inspector = (*Prober)(nil)
