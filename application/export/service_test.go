package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"media-cutter/domain/library"
	"media-cutter/domain/video"
)

// --- Mock implementations for testing ---

// mockInspector implements video.Inspector for testing
type mockInspector struct {
	info       *video.SourceInfo
	shouldFail bool
	failError  error
}

func (m *mockInspector) Inspect(ctx context.Context, path string) (*video.SourceInfo, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	info := *m.info
	info.Path = path
	return &info, nil
}

// mockEncoder implements video.Encoder for testing
type mockEncoder struct {
	calls       []encodeCall
	result      video.EncodeResult
	sessionFail error
}

type encodeCall struct {
	plan       video.CompositionPlan
	outputPath string
}

func (m *mockEncoder) Encode(ctx context.Context, src *video.SourceInfo, plan video.CompositionPlan, outputPath string) (video.EncodeResult, error) {
	if m.sessionFail != nil {
		return video.EncodeResult{}, m.sessionFail
	}
	m.calls = append(m.calls, encodeCall{plan: plan, outputPath: outputPath})
	return m.result, nil
}

// mockStore implements library.AssetStore for testing
type mockStore struct {
	saved      []string
	shouldFail bool
	failError  error
}

func (m *mockStore) Save(ctx context.Context, path string) (*library.Asset, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	m.saved = append(m.saved, path)
	return &library.Asset{ID: "asset-1", Name: "trimmed.mov", Location: "/library/trimmed.mov"}, nil
}

// mockFiles implements video.FileChecker and video.FileRemover for testing
type mockFiles struct {
	existingFiles map[string]bool
	removed       []string
}

func (m *mockFiles) Exists(path string) bool {
	return m.existingFiles[path]
}

func (m *mockFiles) RemoveIfExists(path string) error {
	m.removed = append(m.removed, path)
	delete(m.existingFiles, path)
	return nil
}

const sourcePath = "/videos/holiday.mov"

type fixture struct {
	inspector *mockInspector
	encoder   *mockEncoder
	store     *mockStore
	files     *mockFiles
	service   *Service
}

func newFixture(tracks ...video.TrackKind) *fixture {
	info := &video.SourceInfo{Duration: video.Seconds(10)}
	for _, k := range tracks {
		info.Tracks = append(info.Tracks, video.SourceTrack{Kind: k, Duration: video.Seconds(10)})
	}

	f := &fixture{
		inspector: &mockInspector{info: info},
		encoder:   &mockEncoder{result: video.EncodeResult{Status: video.EncodeCompleted}},
		store:     &mockStore{},
		files:     &mockFiles{existingFiles: map[string]bool{sourcePath: true}},
	}
	f.service = NewService(f.inspector, f.encoder, f.store, f.files, f.files,
		WithTempDir("/tmp/export"),
		WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	)
	return f
}

func selection(start, end int64) video.Selection {
	return video.Selection{Start: video.Seconds(start), End: video.Seconds(end)}
}

func TestService_Export(t *testing.T) {
	f := newFixture(video.TrackVideo, video.TrackAudio)

	result, err := f.service.Export(context.Background(), Input{SourcePath: sourcePath, Selection: selection(3, 7)})
	if err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}

	wantPath := "/tmp/export/trimmed_video_1700000000.mov"
	if result.OutputPath != wantPath {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, wantPath)
	}
	if !result.OutputDuration.Equal(video.Seconds(6)) {
		t.Errorf("OutputDuration = %v, want 6s", result.OutputDuration)
	}
	if len(f.encoder.calls) != 1 || f.encoder.calls[0].outputPath != wantPath {
		t.Fatalf("encoder calls = %+v", f.encoder.calls)
	}
	if !f.encoder.calls[0].plan.Has(video.TrackAudio) {
		t.Error("expected audio track in the export plan")
	}
	if len(f.store.saved) != 1 || f.store.saved[0] != wantPath {
		t.Errorf("store saved %v, want [%s]", f.store.saved, wantPath)
	}
	if result.Asset == nil || result.Asset.ID != "asset-1" {
		t.Errorf("Asset = %+v", result.Asset)
	}

	// stale output removed before encoding, transient output removed after saving
	if len(f.files.removed) != 2 || f.files.removed[0] != wantPath || f.files.removed[1] != wantPath {
		t.Errorf("removed = %v", f.files.removed)
	}
}

func TestService_ExportKeepTemp(t *testing.T) {
	f := newFixture(video.TrackVideo)
	f.service = NewService(f.inspector, f.encoder, f.store, f.files, f.files, WithKeepTemp(true))

	if _, err := f.service.Export(context.Background(), Input{SourcePath: sourcePath, Selection: selection(0, 4)}); err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}
	if len(f.files.removed) != 1 {
		t.Errorf("removed = %v, want only the pre-encode clear", f.files.removed)
	}
}

func TestService_ExportErrors(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(f *fixture)
		tracks      []video.TrackKind
		sel         video.Selection
		wantErr     error
		errContains string
		wantEncode  bool
		wantCleanup bool
	}{
		{
			name:        "missing source",
			setup:       func(f *fixture) { f.files.existingFiles = map[string]bool{} },
			tracks:      []video.TrackKind{video.TrackVideo},
			sel:         selection(3, 7),
			errContains: "does not exist",
		},
		{
			name: "inspect failure",
			setup: func(f *fixture) {
				f.inspector.shouldFail = true
				f.inspector.failError = errors.New("moov atom not found")
			},
			tracks:      []video.TrackKind{video.TrackVideo},
			sel:         selection(3, 7),
			errContains: "moov atom not found",
		},
		{
			name:    "no video track",
			tracks:  []video.TrackKind{video.TrackAudio},
			sel:     selection(3, 7),
			wantErr: video.ErrMissingRequiredTrack,
		},
		{
			name:    "inverted selection",
			tracks:  []video.TrackKind{video.TrackVideo},
			sel:     selection(7, 3),
			wantErr: video.ErrInvalidRange,
		},
		{
			name:    "selection past the end",
			tracks:  []video.TrackKind{video.TrackVideo},
			sel:     selection(3, 11),
			wantErr: video.ErrInvalidRange,
		},
		{
			name:    "full selection",
			tracks:  []video.TrackKind{video.TrackVideo},
			sel:     selection(0, 10),
			wantErr: video.ErrEmptyOutput,
		},
		{
			name:    "session creation failure",
			setup:   func(f *fixture) { f.encoder.sessionFail = errors.New("ffmpeg not found") },
			tracks:  []video.TrackKind{video.TrackVideo},
			sel:     selection(3, 7),
			wantErr: video.ErrEncodeSessionCreation,
		},
		{
			name: "encode failure",
			setup: func(f *fixture) {
				f.encoder.result = video.EncodeResult{Status: video.EncodeFailed, Reason: "disk full"}
			},
			tracks:      []video.TrackKind{video.TrackVideo},
			sel:         selection(3, 7),
			wantErr:     video.ErrEncodeFailed,
			errContains: "disk full",
			wantEncode:  true,
			wantCleanup: true,
		},
		{
			name:        "encode cancelled",
			setup:       func(f *fixture) { f.encoder.result = video.EncodeResult{Status: video.EncodeCancelled} },
			tracks:      []video.TrackKind{video.TrackVideo},
			sel:         selection(3, 7),
			wantErr:     video.ErrEncodeCancelled,
			wantEncode:  true,
			wantCleanup: true,
		},
		{
			name: "persist failure",
			setup: func(f *fixture) {
				f.store.shouldFail = true
				f.store.failError = errors.New("library is read-only")
			},
			tracks:      []video.TrackKind{video.TrackVideo},
			sel:         selection(3, 7),
			wantErr:     library.ErrPersistFailed,
			errContains: "library is read-only",
			wantEncode:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.tracks...)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.service.Export(context.Background(), Input{SourcePath: sourcePath, Selection: tt.sel})
			if err == nil {
				t.Fatal("Export() expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Export() error = %v, want %v", err, tt.wantErr)
			}
			if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
				t.Errorf("Export() error = %v, want error containing %q", err, tt.errContains)
			}
			if !tt.wantEncode && len(f.encoder.calls) != 0 {
				t.Errorf("encoder was invoked %d times, want 0", len(f.encoder.calls))
			}
			if len(f.store.saved) != 0 {
				t.Errorf("store saved %v on a failed export", f.store.saved)
			}
			// cleared before encoding, then the partial output removed
			if tt.wantCleanup && (len(f.files.removed) != 2 || f.files.removed[1] != f.files.removed[0]) {
				t.Errorf("removed = %v, want the partial output removed after the encode", f.files.removed)
			}
		})
	}
}

func TestService_FullSelectionIsAlsoInvalidRange(t *testing.T) {
	f := newFixture(video.TrackVideo)
	_, err := f.service.Export(context.Background(), Input{SourcePath: sourcePath, Selection: selection(0, 10)})
	if !errors.Is(err, video.ErrInvalidRange) {
		t.Errorf("Export() error = %v, want it to match ErrInvalidRange", err)
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("/var/tmp", time.Unix(42, 0))
	if got != "/var/tmp/trimmed_video_42.mov" {
		t.Errorf("OutputPath() = %q", got)
	}
}

func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
