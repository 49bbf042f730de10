package mpv

import (
	"context"
	"errors"
	"testing"

	"media-cutter/domain/video"
)

func TestComposer_Compose(t *testing.T) {
	src := &video.SourceInfo{Path: "/videos/a,b.mov", Duration: video.Seconds(10)}
	plan, err := video.Plan(src.Duration, []video.TrackKind{video.TrackVideo, video.TrackAudio},
		video.Selection{Start: video.Seconds(3), End: video.Milliseconds(7500)})
	if err != nil {
		t.Fatalf("Plan() unexpected error: %v", err)
	}

	preview, err := NewComposer().Compose(context.Background(), src, plan)
	if err != nil {
		t.Fatalf("Compose() unexpected error: %v", err)
	}

	want := "edl://%15%/videos/a,b.mov,0.000000,3.000000;%15%/videos/a,b.mov,7.500000,2.500000"
	if preview.Locator() != want {
		t.Errorf("Locator() =\n%s\nwant\n%s", preview.Locator(), want)
	}
	if !preview.Duration().Equal(video.Milliseconds(5500)) {
		t.Errorf("Duration() = %v, want 5.5s", preview.Duration())
	}
	if err := preview.Close(); err != nil {
		t.Errorf("Close() unexpected error: %v", err)
	}
}

func TestComposer_EmptyPlan(t *testing.T) {
	src := &video.SourceInfo{Path: "in.mov", Duration: video.Seconds(10)}
	plan, err := video.Plan(src.Duration, []video.TrackKind{video.TrackVideo},
		video.Selection{Start: video.Seconds(0), End: video.Seconds(10)})
	if err != nil {
		t.Fatalf("Plan() unexpected error: %v", err)
	}

	if _, err := NewComposer().Compose(context.Background(), src, plan); !errors.Is(err, video.ErrEmptyOutput) {
		t.Errorf("Compose() error = %v, want ErrEmptyOutput", err)
	}
}

func TestComposer_RejectsBrokenPlan(t *testing.T) {
	plan := video.CompositionPlan{Tracks: map[video.TrackKind][]video.Segment{
		video.TrackVideo: {{
			SourceRange:       video.TimeRange{Start: video.Seconds(0), End: video.Seconds(2)},
			DestinationOffset: video.Seconds(1),
		}},
	}}
	if _, err := NewComposer().Compose(context.Background(), &video.SourceInfo{}, plan); err == nil {
		t.Error("Compose() expected error for a plan with a gap")
	}
}
