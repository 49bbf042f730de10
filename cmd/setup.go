package cmd

import (
	"fmt"
	"os"

	"media-cutter/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through choosing where exports are written,
how they are encoded and which library they are saved to.`,
	// setup must work even when the current file does not load
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to media-cutter setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	for _, step := range []func(Prompter, *config.Config) error{promptPaths, promptExport, promptLibrary} {
		if err := step(prompter, cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

// ask prompts with a default and keeps the default on an empty answer
func ask(prompter Prompter, message string, value *string) error {
	answer, err := prompter.Input(message, *value)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if answer != "" {
		*value = answer
	}
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	if err := ask(prompter, "Where should transient exports be written?", &cfg.Paths.TempDirectory); err != nil {
		return err
	}
	return ask(prompter, "Path to ffmpeg?", &cfg.FFmpeg.FFmpegPath)
}

func promptExport(prompter Prompter, cfg *config.Config) error {
	preset, err := prompter.Select("Export preset?", []string{"highest", "reencode"}, cfg.FFmpeg.Preset)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.FFmpeg.Preset = preset

	keep, err := prompter.Confirm("Keep transient export files after saving?", cfg.FFmpeg.KeepTemp)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.FFmpeg.KeepTemp = keep
	return nil
}

func promptLibrary(prompter Prompter, cfg *config.Config) error {
	backend, err := prompter.Select("Where should exports be saved?", []string{config.BackendLocal, config.BackendDrive}, cfg.Library.Backend)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Library.Backend = backend

	if backend == config.BackendLocal {
		if err := ask(prompter, "Library folder?", &cfg.Paths.LibraryDirectory); err != nil {
			return err
		}
		return ask(prompter, "Library index database?", &cfg.Paths.IndexDatabase)
	}

	if err := ask(prompter, "Path to Google credentials file?", &cfg.Library.CredentialsFile); err != nil {
		return err
	}
	if err := ask(prompter, "Google Drive folder ID for exports?", &cfg.Library.DriveFolderID); err != nil {
		return err
	}
	if cfg.Library.DriveFolderID == "" {
		return fmt.Errorf("folder ID is required")
	}
	return nil
}
