package video

import "context"

// Inspector reports the duration and tracks of a source.
// This is a port that can be implemented by different infrastructure adapters
type Inspector interface {
	// Inspect probes the source at path; it must be called before planning
	Inspect(ctx context.Context, path string) (*SourceInfo, error)
}

// Preview is a playable timeline built from a plan
type Preview interface {
	// Locator returns what a player should open to play the preview
	Locator() string

	// Duration returns the preview's output duration
	Duration() Time

	// Close releases the preview
	Close() error
}

// Composer builds previews from composition plans.
// Previews are never persisted.
type Composer interface {
	Compose(ctx context.Context, src *SourceInfo, plan CompositionPlan) (Preview, error)
}

// EncodeStatus is the terminal state of an encode
type EncodeStatus int

const (
	// EncodeCompleted means the output file was written
	EncodeCompleted EncodeStatus = iota

	// EncodeFailed means the encoder gave up; see EncodeResult.Reason
	EncodeFailed

	// EncodeCancelled means the encode was stopped before finishing
	EncodeCancelled
)

// String returns the lowercase status name
func (s EncodeStatus) String() string {
	switch s {
	case EncodeCompleted:
		return "completed"
	case EncodeFailed:
		return "failed"
	case EncodeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// EncodeResult is what an Encoder reports once it reaches a terminal state
type EncodeResult struct {
	Status EncodeStatus
	Reason string
}

// Encoder materializes a composition plan into an output file
type Encoder interface {
	// Encode copies every segment of plan from src and concatenates them
	// into outputPath. The error return is reserved for failing to start
	// an encode session at all; everything after that is in the result.
	Encode(ctx context.Context, src *SourceInfo, plan CompositionPlan, outputPath string) (EncodeResult, error)
}

// FileChecker defines the interface for checking file existence
// This is used to validate that source files exist before inspecting
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// FileRemover removes a stale output before an export writes it
type FileRemover interface {
	// RemoveIfExists deletes path, treating a missing file as success
	RemoveIfExists(path string) error
}
