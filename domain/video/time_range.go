package video

import "fmt"

// TimeRange is a half-open span [Start, End) of a media timeline
type TimeRange struct {
	Start Time
	End   Time
}

// NewTimeRange creates a TimeRange, rejecting inverted or negative bounds
func NewTimeRange(start, end Time) (TimeRange, error) {
	r := TimeRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// Validate checks that the range has non-negative bounds and End >= Start
func (r TimeRange) Validate() error {
	if r.Start.IsNegative() || r.End.IsNegative() {
		return fmt.Errorf("%w: negative bound in [%s, %s)", ErrInvalidRange, r.Start, r.End)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange, r.End, r.Start)
	}
	return nil
}

// Duration returns End - Start
func (r TimeRange) Duration() Time {
	return r.End.Sub(r.Start)
}

// IsEmpty returns true if the range covers no time
func (r TimeRange) IsEmpty() bool {
	return !r.End.After(r.Start)
}

// Contains reports whether t falls inside [Start, End)
func (r TimeRange) Contains(t Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Overlaps reports whether r and other share any instant
func (r TimeRange) Overlaps(other TimeRange) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Equal reports whether both bounds denote the same instants
func (r TimeRange) Equal(other TimeRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// String returns the range as "[start, end)"
func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End)
}
