package video

// Plan computes the composition that keeps everything outside sel: the
// leading remainder [0, sel.Start) at offset 0 followed by the trailing
// remainder [sel.End, sourceDuration) directly after it. Empty remainders
// contribute no segment. Every kind in tracks gets the same segment list;
// kinds not in tracks are left out of the plan.
//
// Plan is pure and safe for concurrent use. It fails only with
// ErrInvalidRange, and never returns a partial plan.
func Plan(sourceDuration Time, tracks []TrackKind, sel Selection) (CompositionPlan, error) {
	if err := sel.Validate(sourceDuration); err != nil {
		return CompositionPlan{}, err
	}

	var segments []Segment
	var offset Time
	for _, r := range sel.Retained(sourceDuration) {
		segments = append(segments, Segment{SourceRange: r, DestinationOffset: offset})
		offset = offset.Add(r.Duration())
	}

	plan := CompositionPlan{Tracks: make(map[TrackKind][]Segment, len(tracks))}
	for _, kind := range uniqueKinds(tracks) {
		segs := make([]Segment, len(segments))
		copy(segs, segments)
		plan.Tracks[kind] = segs
	}
	return plan, nil
}
