package video

import "fmt"

// Selection is the user-chosen sub-range of the source to discard.
// Both bounds are required; build it with NewSelection or ParseSelection.
type Selection struct {
	Start Time
	End   Time
}

// NewSelection creates a Selection, rejecting inverted or negative bounds.
// Bounds against a source duration are checked by Validate.
func NewSelection(start, end Time) (Selection, error) {
	if _, err := NewTimeRange(start, end); err != nil {
		return Selection{}, err
	}
	return Selection{Start: start, End: end}, nil
}

// ParseSelection parses start and end timestamps into a Selection
func ParseSelection(start, end string) (Selection, error) {
	s, err := ParseTimestamp(start)
	if err != nil {
		return Selection{}, fmt.Errorf("invalid start time: %w", err)
	}
	e, err := ParseTimestamp(end)
	if err != nil {
		return Selection{}, fmt.Errorf("invalid end time: %w", err)
	}
	return NewSelection(s, e)
}

// Range returns the selection as a TimeRange
func (s Selection) Range() TimeRange {
	return TimeRange{Start: s.Start, End: s.End}
}

// Duration returns the length of the discarded span
func (s Selection) Duration() Time {
	return s.End.Sub(s.Start)
}

// Validate checks 0 <= Start <= End <= sourceDuration
func (s Selection) Validate(sourceDuration Time) error {
	if !sourceDuration.After(Time{}) {
		return fmt.Errorf("%w: source duration %s must be positive", ErrInvalidRange, sourceDuration)
	}
	if err := s.Range().Validate(); err != nil {
		return err
	}
	if s.End.After(sourceDuration) {
		return fmt.Errorf("%w: end %s is past source duration %s", ErrInvalidRange, s.End, sourceDuration)
	}
	return nil
}

// CoversAll returns true if the selection spans the whole source
func (s Selection) CoversAll(sourceDuration Time) bool {
	return s.Start.IsZero() && s.End.Equal(sourceDuration)
}

// Retained returns the non-empty remainders kept around the selection,
// leading first. It assumes Validate has passed.
func (s Selection) Retained(sourceDuration Time) []TimeRange {
	var out []TimeRange
	leading := TimeRange{Start: Time{Scale: sourceDuration.Scale}, End: s.Start}
	if !leading.IsEmpty() {
		out = append(out, leading)
	}
	trailing := TimeRange{Start: s.End, End: sourceDuration}
	if !trailing.IsEmpty() {
		out = append(out, trailing)
	}
	return out
}

// String returns the selection as "[start, end)"
func (s Selection) String() string {
	return s.Range().String()
}
