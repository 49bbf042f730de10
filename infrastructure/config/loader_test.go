package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
paths:
  temp_directory: /var/tmp/cutter
  library_directory: /srv/library
ffmpeg:
  preset: reencode
preview:
  debounce_ms: 250
library:
  backend: drive
  drive_folder_id: folder-123
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Paths.TempDirectory != "/var/tmp/cutter" || cfg.Paths.LibraryDirectory != "/srv/library" {
		t.Errorf("Paths = %+v", cfg.Paths)
	}
	if cfg.FFmpeg.Preset != "reencode" || cfg.FFmpeg.FFmpegPath != "ffmpeg" {
		t.Errorf("FFmpeg = %+v", cfg.FFmpeg)
	}
	if cfg.Preview.Debounce() != 250*time.Millisecond {
		t.Errorf("Debounce() = %v, want 250ms", cfg.Preview.Debounce())
	}
	if cfg.Preview.PollInterval() != 100*time.Millisecond {
		t.Errorf("PollInterval() = %v, want default 100ms", cfg.Preview.PollInterval())
	}
	if cfg.Library.Backend != BackendDrive || cfg.Library.TokenFile != "token.json" {
		t.Errorf("Library = %+v", cfg.Library)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		contents    string
		errContains string
	}{
		{"bad yaml", "paths: [unclosed", "failed to parse"},
		{"bad preset", "ffmpeg:\n  preset: lossless\n", "unknown preset"},
		{"drive without folder", "library:\n  backend: drive\n", "drive_folder_id is required"},
		{"bad backend", "library:\n  backend: s3\n", "unknown backend"},
		{"bad log format", "logging:\n  format: xml\n", "unknown format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.contents))
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Load() error = %v, want error containing %q", err, tt.errContains)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for a missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
	if cfg.Preview.Debounce() != 500*time.Millisecond {
		t.Errorf("default debounce = %v", cfg.Preview.Debounce())
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.FFmpeg.KeepTemp = true

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("reloaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestConfigManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	mgr := NewConfigManager(cfg, path)

	if err := mgr.Set("preview.poll_ms", "50"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if got, _ := mgr.Get("preview.poll_ms"); got != "50" {
		t.Errorf("Get() = %q, want 50", got)
	}
	reloaded, err := Load(path)
	if err != nil || reloaded.Preview.PollMS != 50 {
		t.Errorf("saved config = %+v, %v", reloaded, err)
	}

	tests := []struct {
		key, value string
		wantErr    error
	}{
		{"preview.fps", "30", ErrUnknownKey},
		{"preview.poll_ms", "-1", ErrInvalidValue},
		{"ffmpeg.keep_temp", "maybe", ErrInvalidValue},
		{"ffmpeg.preset", "lossless", ErrInvalidValue},
	}
	for _, tt := range tests {
		if err := mgr.Set(tt.key, tt.value); !errors.Is(err, tt.wantErr) {
			t.Errorf("Set(%q, %q) error = %v, want %v", tt.key, tt.value, err, tt.wantErr)
		}
	}
	if cfg.FFmpeg.Preset != "highest" {
		t.Errorf("failed Set changed the config: preset = %q", cfg.FFmpeg.Preset)
	}

	if _, err := mgr.Get("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get() error = %v, want ErrUnknownKey", err)
	}
	keys := mgr.Keys()
	if len(keys) != len(settings) || keys[0] != "ffmpeg.ffmpeg_path" {
		t.Errorf("Keys() = %v", keys)
	}
}
