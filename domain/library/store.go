package library

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrPersistFailed is wrapped by every asset store failure
var ErrPersistFailed = errors.New("could not save to library")

// MIME type constants for exported media
const (
	MimeTypeQuickTime = "video/quicktime"
	MimeTypeMP4       = "video/mp4"
)

// MimeTypeFor returns the MIME type for an export file name
func MimeTypeFor(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".mp4") {
		return MimeTypeMP4
	}
	return MimeTypeQuickTime
}

// Asset is a finished export that has been filed into the media library
type Asset struct {
	ID        string    // Store-assigned identifier
	Name      string    // File name in the library
	Location  string    // Path or URL where the asset now lives
	Size      int64     // Size in bytes
	CreatedAt time.Time // When the asset was saved
}

// AssetStore persists finished output files into the user's media library.
// This is a port that can be implemented by different infrastructure adapters
type AssetStore interface {
	// Save files the output at path into the library
	Save(ctx context.Context, path string) (*Asset, error)
}

// Lister lists assets already saved to a library
type Lister interface {
	List(ctx context.Context) ([]Asset, error)
}

// PersistError carries the reason an asset store rejected a save
type PersistError struct {
	Reason string
	Err    error
}

func (e *PersistError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrPersistFailed, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrPersistFailed, e.Reason)
}

// Is lets errors.Is match ErrPersistFailed
func (e *PersistError) Is(target error) bool {
	return target == ErrPersistFailed
}

// Unwrap returns the underlying cause
func (e *PersistError) Unwrap() error {
	return e.Err
}
