package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	appexport "media-cutter/application/export"
	"media-cutter/domain/video"
	"media-cutter/infrastructure/console"
	"media-cutter/infrastructure/eventloop"
	"media-cutter/infrastructure/ffmpeg"
	"media-cutter/infrastructure/filesystem"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportSourcePath string
	exportStartTime  string
	exportEndTime    string
	exportPreset     string
	exportKeepTemp   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Cut the selection out of a video and save the rest",
	Long: `Remove the selected time range from a video. The parts before and
after the selection are joined and saved to the configured library
(a local folder indexed in SQLite, or a Google Drive folder).

Press Ctrl-C to cancel a running export.

Example:
  media-cutter export --source holiday.mov --start 00:01:10 --end 00:02:05`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportSourcePath, "source", "", "Path to source video file (required)")
	exportCmd.Flags().StringVar(&exportStartTime, "start", "", "Selection start: HH:MM:SS[.fff], MM:SS or seconds (required)")
	exportCmd.Flags().StringVar(&exportEndTime, "end", "", "Selection end: HH:MM:SS[.fff], MM:SS or seconds (required)")
	exportCmd.Flags().StringVar(&exportPreset, "preset", "", "Export preset: highest or reencode (default from config)")
	exportCmd.Flags().BoolVar(&exportKeepTemp, "keep-temp", false, "Keep the transient output file after saving")
	exportCmd.MarkFlagRequired("source")
	exportCmd.MarkFlagRequired("start")
	exportCmd.MarkFlagRequired("end")
}

func runExport(cmd *cobra.Command, args []string) error {
	c := GetConfig()

	presetName := c.FFmpeg.Preset
	if exportPreset != "" {
		presetName = exportPreset
	}
	preset, err := ffmpeg.ParsePreset(presetName)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openLibrary(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	encoder := ffmpeg.NewEncoder(
		ffmpeg.WithFFmpegPath(c.FFmpeg.FFmpegPath),
		ffmpeg.WithPreset(preset),
		ffmpeg.WithScratchDir(c.Paths.TempDirectory),
		ffmpeg.WithLogger(logger.Named("ffmpeg")),
	)

	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := encoder.VerifyInstalled(verifyCtx); err != nil {
		return fmt.Errorf("ffmpeg verification failed: %w", err)
	}

	checker := filesystem.NewChecker()
	service := appexport.NewService(
		ffmpeg.NewProber(ffmpeg.WithFFprobePath(c.FFmpeg.FFprobePath)),
		encoder,
		store,
		checker,
		checker,
		appexport.WithTempDir(c.Paths.TempDirectory),
		appexport.WithKeepTemp(exportKeepTemp || c.FFmpeg.KeepTemp),
		appexport.WithLogger(logger.Named("export")),
	)

	return RunExportWithDependencies(ctx, service, console.NewSpinner(os.Stderr),
		exportSourcePath, exportStartTime, exportEndTime, os.Stdout)
}

// RunExportWithDependencies runs the export command with injected dependencies (for testing).
// The export runs in the background; its outcome is reported on this goroutine.
func RunExportWithDependencies(
	ctx context.Context,
	exporter appexport.Exporter,
	indicator appexport.BusyIndicator,
	sourcePath string,
	startTime string,
	endTime string,
	output OutputWriter,
) error {
	sel, err := video.ParseSelection(startTime, endTime)
	if err != nil {
		return err
	}

	loop := eventloop.New()
	runner := appexport.NewRunner(exporter, loop,
		appexport.WithIndicator(indicator),
		appexport.WithRunnerLogger(logger.Named("runner")),
	)

	var outcome appexport.Outcome
	runner.Start(ctx, appexport.Input{SourcePath: sourcePath, Selection: sel}, func(o appexport.Outcome) {
		outcome = o
		loop.Stop()
	})

	// the loop outlives ctx so a cancelled export still reports its outcome
	if err := loop.Run(context.Background()); err != nil {
		return err
	}
	runner.Wait()

	return reportOutcome(outcome, sel, output)
}

func reportOutcome(o appexport.Outcome, sel video.Selection, output OutputWriter) error {
	switch o.Status {
	case appexport.StatusCompleted:
		fmt.Fprintf(output, "Removed %s, %s remain\n", sel.Duration().Timecode(), o.Result.OutputDuration.Timecode())
		fmt.Fprintf(output, "Video saved to library: %s\n", o.Result.Asset.Location)
		logger.Info("export completed", zap.String("asset", o.Result.Asset.ID))
		return nil
	case appexport.StatusCancelled:
		fmt.Fprintln(output, "Export cancelled")
		return o.Err
	default:
		fmt.Fprintf(output, "Export Failed: %s\n", failureReason(o.Err))
		return o.Err
	}
}

// failureReason turns an export error into the message shown to the user
func failureReason(err error) string {
	var encErr *video.EncodeError
	switch {
	case errors.Is(err, video.ErrEmptyOutput):
		return "the selection covers the whole video, nothing would remain"
	case errors.Is(err, video.ErrInvalidRange):
		return "the selection is not inside the video"
	case errors.Is(err, video.ErrMissingRequiredTrack):
		return "the video has no video track"
	case errors.Is(err, video.ErrEncodeSessionCreation):
		return "could not start the encoder"
	case errors.As(err, &encErr) && encErr.Reason != "":
		return encErr.Reason
	default:
		return err.Error()
	}
}
