package video

import (
	"fmt"
	"sort"
)

// TrackKind identifies the media type of a source track
type TrackKind int

const (
	// TrackVideo is a video track
	TrackVideo TrackKind = iota

	// TrackAudio is an audio track
	TrackAudio
)

// String returns the lowercase kind name
func (k TrackKind) String() string {
	switch k {
	case TrackVideo:
		return "video"
	case TrackAudio:
		return "audio"
	default:
		return fmt.Sprintf("track(%d)", int(k))
	}
}

// ParseTrackKind parses "video" or "audio"
func ParseTrackKind(s string) (TrackKind, error) {
	switch s {
	case "video":
		return TrackVideo, nil
	case "audio":
		return TrackAudio, nil
	default:
		return 0, fmt.Errorf("unknown track kind %q", s)
	}
}

// SourceTrack describes a track of a decoded source. It is read-only.
type SourceTrack struct {
	Kind     TrackKind
	Duration Time
}

// SourceInfo is what an Inspector reports about a source
type SourceInfo struct {
	Path     string
	Format   string
	Duration Time
	Tracks   []SourceTrack
}

// Kinds returns the distinct track kinds of the source in ascending order
func (s *SourceInfo) Kinds() []TrackKind {
	kinds := make([]TrackKind, 0, len(s.Tracks))
	for _, t := range s.Tracks {
		kinds = append(kinds, t.Kind)
	}
	return uniqueKinds(kinds)
}

// HasTrack returns true if the source has at least one track of kind k
func (s *SourceInfo) HasTrack(k TrackKind) bool {
	for _, t := range s.Tracks {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// uniqueKinds sorts kinds and drops duplicates, returning a new slice
func uniqueKinds(kinds []TrackKind) []TrackKind {
	out := make([]TrackKind, 0, len(kinds))
	seen := make(map[TrackKind]bool, len(kinds))
	for _, k := range kinds {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
