package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// setting binds a dotted key to a Config field
type setting struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringSetting(field func(c *Config) *string) setting {
	return setting{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func intSetting(field func(c *Config) *int) setting {
	return setting{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: %q is not a positive integer", ErrInvalidValue, v)
			}
			*field(c) = n
			return nil
		},
	}
}

func boolSetting(field func(c *Config) *bool) setting {
	return setting{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %q is not true or false", ErrInvalidValue, v)
			}
			*field(c) = b
			return nil
		},
	}
}

var settings = map[string]setting{
	"paths.temp_directory":     stringSetting(func(c *Config) *string { return &c.Paths.TempDirectory }),
	"paths.library_directory":  stringSetting(func(c *Config) *string { return &c.Paths.LibraryDirectory }),
	"paths.index_database":     stringSetting(func(c *Config) *string { return &c.Paths.IndexDatabase }),
	"ffmpeg.ffmpeg_path":       stringSetting(func(c *Config) *string { return &c.FFmpeg.FFmpegPath }),
	"ffmpeg.ffprobe_path":      stringSetting(func(c *Config) *string { return &c.FFmpeg.FFprobePath }),
	"ffmpeg.preset":            stringSetting(func(c *Config) *string { return &c.FFmpeg.Preset }),
	"ffmpeg.keep_temp":         boolSetting(func(c *Config) *bool { return &c.FFmpeg.KeepTemp }),
	"preview.debounce_ms":      intSetting(func(c *Config) *int { return &c.Preview.DebounceMS }),
	"preview.poll_ms":          intSetting(func(c *Config) *int { return &c.Preview.PollMS }),
	"preview.mpv_path":         stringSetting(func(c *Config) *string { return &c.Preview.MpvPath }),
	"preview.socket_path":      stringSetting(func(c *Config) *string { return &c.Preview.SocketPath }),
	"library.backend":          stringSetting(func(c *Config) *string { return &c.Library.Backend }),
	"library.drive_folder_id":  stringSetting(func(c *Config) *string { return &c.Library.DriveFolderID }),
	"library.credentials_file": stringSetting(func(c *Config) *string { return &c.Library.CredentialsFile }),
	"library.token_file":       stringSetting(func(c *Config) *string { return &c.Library.TokenFile }),
	"logging.level":            stringSetting(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":           stringSetting(func(c *Config) *string { return &c.Logging.Format }),
}

// ConfigManager reads and updates individual settings by dotted key
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Keys returns every settable key in sorted order
func (m *ConfigManager) Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the current value of key
func (m *ConfigManager) Get(key string) (string, error) {
	s, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return s.get(m.config), nil
}

// Set updates key, validates the result and saves the file.
// The in-memory config is left unchanged when validation fails.
func (m *ConfigManager) Set(key, value string) error {
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	next := *m.config
	if err := s.set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	if err := Save(&next, m.configPath); err != nil {
		return err
	}
	*m.config = next
	return nil
}
