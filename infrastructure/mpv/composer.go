package mpv

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"media-cutter/domain/video"
)

// EDLPreview is an in-memory mpv timeline. mpv plays the locator directly,
// nothing is written to disk.
type EDLPreview struct {
	locator  string
	duration video.Time
}

// Locator returns the edl:// URL
func (p *EDLPreview) Locator() string {
	return p.locator
}

// Duration returns the preview's output duration
func (p *EDLPreview) Duration() video.Time {
	return p.duration
}

// Close is a no-op; an EDL holds no resources
func (p *EDLPreview) Close() error {
	return nil
}

// Composer implements video.Composer by rendering plans as mpv EDL timelines
type Composer struct{}

// NewComposer creates a new EDL composer
func NewComposer() *Composer {
	return &Composer{}
}

// Compose implements video.Composer
func (c *Composer) Compose(ctx context.Context, src *video.SourceInfo, plan video.CompositionPlan) (video.Preview, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	segments, _ := plan.Segments(video.TrackVideo)
	if len(segments) == 0 {
		return nil, video.ErrEmptyOutput
	}

	return &EDLPreview{
		locator:  EDL(src.Path, segments),
		duration: plan.OutputDuration(video.TrackVideo),
	}, nil
}

// EDL renders segments of path as an edl:// URL. File names use mpv's
// %length% quoting so commas and semicolons in paths are safe.
func EDL(path string, segments []video.Segment) string {
	entries := make([]string, 0, len(segments))
	for _, seg := range segments {
		entries = append(entries, fmt.Sprintf("%%%d%%%s,%s,%s",
			len(path), path,
			edlSeconds(seg.SourceRange.Start),
			edlSeconds(seg.Duration()),
		))
	}
	return "edl://" + strings.Join(entries, ";")
}

func edlSeconds(t video.Time) string {
	return strconv.FormatFloat(t.Seconds(), 'f', 6, 64)
}

// Ensure Composer implements video.Composer
var _ video.Composer = (*Composer)(nil)
