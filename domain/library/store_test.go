package library

import (
	"errors"
	"testing"
)

func TestPersistError(t *testing.T) {
	cause := errors.New("disk quota exceeded")
	err := error(&PersistError{Reason: "copy failed", Err: cause})

	if !errors.Is(err, ErrPersistFailed) {
		t.Error("expected PersistError to match ErrPersistFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("expected PersistError to unwrap to its cause")
	}
	if got := err.Error(); got != "could not save to library: copy failed: disk quota exceeded" {
		t.Errorf("Error() = %q", got)
	}

	bare := &PersistError{Reason: "index update failed"}
	if got := bare.Error(); got != "could not save to library: index update failed" {
		t.Errorf("Error() = %q", got)
	}
}

func TestMimeTypeFor(t *testing.T) {
	tests := map[string]string{
		"trimmed_video_1.mov": MimeTypeQuickTime,
		"clip.MP4":            MimeTypeMP4,
		"noext":               MimeTypeQuickTime,
	}
	for name, want := range tests {
		if got := MimeTypeFor(name); got != want {
			t.Errorf("MimeTypeFor(%q) = %q, want %q", name, got, want)
		}
	}
}
