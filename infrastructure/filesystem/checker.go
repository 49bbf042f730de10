package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"media-cutter/domain/video"
)

// Checker implements video.FileChecker and video.FileRemover using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if path exists and is a regular file
func (c *Checker) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RemoveIfExists deletes path; a missing file is not an error
func (c *Checker) RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Ensure Checker implements the file ports
var (
	_ video.FileChecker = (*Checker)(nil)
	_ video.FileRemover = (*Checker)(nil)
)
