package cmd

import (
	"context"
	"fmt"
	"os"

	"media-cutter/domain/video"
	"media-cutter/infrastructure/ffmpeg"
	"media-cutter/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var inspectSourcePath string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show a video's duration and tracks",
	Long: `Probe a video with ffprobe and print its container format, exact
duration and the video and audio tracks that an export would carry.

Example:
  media-cutter inspect --source holiday.mov`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectSourcePath, "source", "", "Path to source video file (required)")
	inspectCmd.MarkFlagRequired("source")
}

func runInspect(cmd *cobra.Command, args []string) error {
	c := GetConfig()
	inspector := ffmpeg.NewProber(ffmpeg.WithFFprobePath(c.FFmpeg.FFprobePath))

	return RunInspectWithDependencies(cmd.Context(), inspector, filesystem.NewChecker(), inspectSourcePath, os.Stdout)
}

// RunInspectWithDependencies runs the inspect command with injected dependencies (for testing)
func RunInspectWithDependencies(
	ctx context.Context,
	inspector video.Inspector,
	fileChecker video.FileChecker,
	sourcePath string,
	output OutputWriter,
) error {
	src, err := inspectSource(ctx, inspector, fileChecker, sourcePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "File:     %s\n", src.Path)
	fmt.Fprintf(output, "Format:   %s\n", src.Format)
	fmt.Fprintf(output, "Duration: %s (%ss)\n", src.Duration.Timecode(), src.Duration)
	fmt.Fprintf(output, "Tracks:\n")
	for i, t := range src.Tracks {
		fmt.Fprintf(output, "  #%d %-5s %s\n", i, t.Kind, t.Duration.Timecode())
	}
	if !src.HasTrack(video.TrackVideo) {
		fmt.Fprintf(output, "Warning: no video track, this file cannot be exported\n")
	}
	return nil
}

// inspectSource checks that the file exists before probing it
func inspectSource(ctx context.Context, inspector video.Inspector, fileChecker video.FileChecker, sourcePath string) (*video.SourceInfo, error) {
	if !fileChecker.Exists(sourcePath) {
		return nil, fmt.Errorf("source file does not exist: %s", sourcePath)
	}
	src, err := inspector.Inspect(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect source: %w", err)
	}
	return src, nil
}
