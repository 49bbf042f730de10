package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"media-cutter/domain/library"
	"media-cutter/infrastructure/config"
	"media-cutter/infrastructure/drive"
	locallib "media-cutter/infrastructure/library"
	"media-cutter/infrastructure/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefaultConfigPath is used when --config is not given
const DefaultConfigPath = "config/config.yaml"

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "media-cutter",
	Short: "Cut a section out of a video and save the rest",
	Long: `media-cutter removes a selected time range from a video. The parts
before and after the selection are joined back together without
re-encoding and the result is saved to your media library.

  - Inspect a video's duration and tracks
  - Show what an export would keep
  - Preview the result live in mpv while adjusting the selection
  - Export to the local library or Google Drive

Example:
  media-cutter export --source holiday.mov --start 00:01:10 --end 00:02:05`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		l, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = DefaultConfigPath
	}
	cfg, cfgErr = loadConfig(cfgFile)
}

// loadConfig falls back to defaults when the file does not exist
func loadConfig(path string) (*config.Config, error) {
	loaded, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return loaded, nil
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// libraryBackend is an asset store that can also list what it holds
type libraryBackend interface {
	library.AssetStore
	library.Lister
}

// openLibrary builds the configured asset store. The returned func releases it.
func openLibrary(ctx context.Context, c *config.Config) (libraryBackend, func(), error) {
	switch c.Library.Backend {
	case config.BackendDrive:
		store, err := drive.Open(ctx, drive.OAuthConfig{
			CredentialsFile: c.Library.CredentialsFile,
			TokenFile:       c.Library.TokenFile,
			Out:             os.Stdout,
		}, c.Library.DriveFolderID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Google Drive: %w", err)
		}
		return store, func() {}, nil
	default:
		idx, err := locallib.OpenIndex(c.Paths.IndexDatabase)
		if err != nil {
			return nil, nil, err
		}
		return locallib.NewLocalStore(c.Paths.LibraryDirectory, idx), func() { idx.Close() }, nil
	}
}
