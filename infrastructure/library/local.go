package library

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-cutter/domain/library"

	"github.com/google/uuid"
)

// LocalStore implements library.AssetStore by copying exports into a
// directory and recording them in the index
type LocalStore struct {
	dir   string
	index *Index
	now   func() time.Time
}

// LocalOption is a functional option for configuring LocalStore
type LocalOption func(*LocalStore)

// WithNow overrides time.Now (for testing)
func WithNow(now func() time.Time) LocalOption {
	return func(s *LocalStore) {
		s.now = now
	}
}

// NewLocalStore creates a store filing exports into dir
func NewLocalStore(dir string, index *Index, opts ...LocalOption) *LocalStore {
	s := &LocalStore{
		dir:   dir,
		index: index,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Save implements library.AssetStore
func (s *LocalStore) Save(ctx context.Context, path string) (*library.Asset, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, &library.PersistError{Reason: "library directory unavailable", Err: err}
	}

	id := uuid.NewString()
	name := filepath.Base(path)
	dest := filepath.Join(s.dir, name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s_%s%s", strings.TrimSuffix(name, ext), id[:8], ext)
		dest = filepath.Join(s.dir, name)
	}

	size, err := copyFile(path, dest)
	if err != nil {
		return nil, &library.PersistError{Reason: "copy failed", Err: err}
	}

	asset := library.Asset{
		ID:        id,
		Name:      name,
		Location:  dest,
		Size:      size,
		CreatedAt: s.now(),
	}

	if err := s.index.Insert(ctx, asset); err != nil {
		os.Remove(dest)
		return nil, &library.PersistError{Reason: "index update failed", Err: err}
	}

	return &asset, nil
}

// List implements library.Lister
func (s *LocalStore) List(ctx context.Context) ([]library.Asset, error) {
	return s.index.List(ctx)
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, err
	}
	return n, nil
}

// Ensure LocalStore implements the library ports
var (
	_ library.AssetStore = (*LocalStore)(nil)
	_ library.Lister     = (*LocalStore)(nil)
)
