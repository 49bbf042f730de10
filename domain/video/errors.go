package video

import (
	"errors"
	"fmt"
)

// Errors for planning and export
var (
	ErrInvalidRange          = errors.New("invalid range")
	ErrMissingRequiredTrack  = errors.New("missing required track")
	ErrEmptyOutput           = fmt.Errorf("%w: selection covers the whole source, nothing would remain", ErrInvalidRange)
	ErrEncodeSessionCreation = errors.New("could not create encode session")
	ErrEncodeFailed          = errors.New("encode failed")
	ErrEncodeCancelled       = errors.New("encode cancelled")
)

// EncodeError carries the reason reported by an encoder for a failed export
type EncodeError struct {
	Reason string
}

func (e *EncodeError) Error() string {
	if e.Reason == "" {
		return ErrEncodeFailed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrEncodeFailed, e.Reason)
}

// Unwrap lets errors.Is match ErrEncodeFailed
func (e *EncodeError) Unwrap() error {
	return ErrEncodeFailed
}
