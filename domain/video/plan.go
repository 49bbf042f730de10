package video

import (
	"fmt"
	"sort"
)

// Segment copies SourceRange of a source track to DestinationOffset in the output track
type Segment struct {
	SourceRange       TimeRange
	DestinationOffset Time
}

// Duration returns the length of the copied span
func (s Segment) Duration() Time {
	return s.SourceRange.Duration()
}

// DestinationRange returns where the segment lands in the output track
func (s Segment) DestinationRange() TimeRange {
	return TimeRange{Start: s.DestinationOffset, End: s.DestinationOffset.Add(s.Duration())}
}

// Equal reports whether both segments copy the same span to the same place
func (s Segment) Equal(other Segment) bool {
	return s.SourceRange.Equal(other.SourceRange) && s.DestinationOffset.Equal(other.DestinationOffset)
}

// String returns "src [a, b) -> dst c"
func (s Segment) String() string {
	return fmt.Sprintf("src %s -> dst %s", s.SourceRange, s.DestinationOffset)
}

// CompositionPlan maps each present track kind to its ordered segments.
// Slice order is playback order in the output. A kind missing from the
// source is missing from the map; a present kind may map to an empty slice.
type CompositionPlan struct {
	Tracks map[TrackKind][]Segment
}

// Segments returns the segments for kind and whether the kind is present
func (p CompositionPlan) Segments(kind TrackKind) ([]Segment, bool) {
	segs, ok := p.Tracks[kind]
	return segs, ok
}

// Has returns true if the plan has an entry for kind
func (p CompositionPlan) Has(kind TrackKind) bool {
	_, ok := p.Tracks[kind]
	return ok
}

// Kinds returns the track kinds in the plan in ascending order
func (p CompositionPlan) Kinds() []TrackKind {
	kinds := make([]TrackKind, 0, len(p.Tracks))
	for k := range p.Tracks {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// OutputDuration returns the summed segment duration for kind
func (p CompositionPlan) OutputDuration(kind TrackKind) Time {
	var total Time
	for _, s := range p.Tracks[kind] {
		total = total.Add(s.Duration())
	}
	return total
}

// IsEmpty returns true if no track has any segment
func (p CompositionPlan) IsEmpty() bool {
	for _, segs := range p.Tracks {
		if len(segs) > 0 {
			return false
		}
	}
	return true
}

// Validate checks that every track's segments are non-empty, ordered by
// destination offset and laid back-to-back starting at zero
func (p CompositionPlan) Validate() error {
	for _, kind := range p.Kinds() {
		var cursor Time
		for i, s := range p.Tracks[kind] {
			if err := s.SourceRange.Validate(); err != nil {
				return fmt.Errorf("%s segment %d: %w", kind, i, err)
			}
			if s.SourceRange.IsEmpty() {
				return fmt.Errorf("%s segment %d: empty source range %s", kind, i, s.SourceRange)
			}
			if !s.DestinationOffset.Equal(cursor) {
				return fmt.Errorf("%s segment %d: destination offset %s, want %s", kind, i, s.DestinationOffset, cursor)
			}
			cursor = cursor.Add(s.Duration())
		}
	}
	return nil
}

// Equal reports whether both plans have the same kinds and equal segments
func (p CompositionPlan) Equal(other CompositionPlan) bool {
	if len(p.Tracks) != len(other.Tracks) {
		return false
	}
	for kind, segs := range p.Tracks {
		otherSegs, ok := other.Tracks[kind]
		if !ok || len(segs) != len(otherSegs) {
			return false
		}
		for i := range segs {
			if !segs[i].Equal(otherSegs[i]) {
				return false
			}
		}
	}
	return true
}
