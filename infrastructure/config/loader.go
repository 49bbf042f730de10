package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Library backends
const (
	BackendLocal = "local"
	BackendDrive = "drive"
)

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Preview PreviewConfig `yaml:"preview"`
	Library LibraryConfig `yaml:"library"`
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig contains directories and files used while exporting
type PathsConfig struct {
	TempDirectory    string `yaml:"temp_directory"`
	LibraryDirectory string `yaml:"library_directory"`
	IndexDatabase    string `yaml:"index_database"`
}

// FFmpegConfig contains encoder and inspector settings
type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
	Preset      string `yaml:"preset"`
	KeepTemp    bool   `yaml:"keep_temp"`
}

// PreviewConfig contains live preview settings
type PreviewConfig struct {
	DebounceMS int    `yaml:"debounce_ms"`
	PollMS     int    `yaml:"poll_ms"`
	MpvPath    string `yaml:"mpv_path"`
	SocketPath string `yaml:"socket_path"`
}

// LibraryConfig selects where finished exports are saved
type LibraryConfig struct {
	Backend         string `yaml:"backend"`
	DriveFolderID   string `yaml:"drive_folder_id"`
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Debounce returns the preview rebuild delay
func (p PreviewConfig) Debounce() time.Duration {
	return time.Duration(p.DebounceMS) * time.Millisecond
}

// PollInterval returns the playback polling interval
func (p PreviewConfig) PollInterval() time.Duration {
	return time.Duration(p.PollMS) * time.Millisecond
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in every value left empty
func (c *Config) ApplyDefaults() {
	if c.Paths.TempDirectory == "" {
		c.Paths.TempDirectory = os.TempDir()
	}
	if c.Paths.LibraryDirectory == "" || c.Paths.IndexDatabase == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		if c.Paths.LibraryDirectory == "" {
			c.Paths.LibraryDirectory = filepath.Join(home, "Movies", "media-cutter")
		}
		if c.Paths.IndexDatabase == "" {
			c.Paths.IndexDatabase = filepath.Join(home, ".local", "share", "media-cutter", "library.db")
		}
	}

	if c.FFmpeg.FFmpegPath == "" {
		c.FFmpeg.FFmpegPath = "ffmpeg"
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = "ffprobe"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "highest"
	}

	if c.Preview.DebounceMS <= 0 {
		c.Preview.DebounceMS = 500
	}
	if c.Preview.PollMS <= 0 {
		c.Preview.PollMS = 100
	}
	if c.Preview.MpvPath == "" {
		c.Preview.MpvPath = "mpv"
	}
	if c.Preview.SocketPath == "" {
		c.Preview.SocketPath = "/tmp/media-cutter-mpv.sock"
	}

	if c.Library.Backend == "" {
		c.Library.Backend = BackendLocal
	}
	if c.Library.CredentialsFile == "" {
		c.Library.CredentialsFile = "credentials.json"
	}
	if c.Library.TokenFile == "" {
		c.Library.TokenFile = "token.json"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate checks values that have a fixed set of choices
func (c *Config) Validate() error {
	var errs []error

	switch c.FFmpeg.Preset {
	case "highest", "reencode":
	default:
		errs = append(errs, fmt.Errorf("ffmpeg.preset: unknown preset %q", c.FFmpeg.Preset))
	}

	switch c.Library.Backend {
	case BackendLocal:
	case BackendDrive:
		if c.Library.DriveFolderID == "" {
			errs = append(errs, errors.New("library.drive_folder_id is required for the drive backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("library.backend: unknown backend %q", c.Library.Backend))
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Load reads and parses the configuration from the specified YAML file,
// applying defaults for missing values
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
