package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"media-cutter/domain/video"
	"media-cutter/infrastructure/ffmpeg"
	"media-cutter/infrastructure/filesystem"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// timelineWidth is the number of cells in the rendered timeline bar
const timelineWidth = 60

var (
	planSourcePath string
	planStartTime  string
	planEndTime    string
)

var (
	keptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cutStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headingStyle = lipgloss.NewStyle().Bold(true)
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what an export would keep",
	Long: `Plan cutting the selection out of a video without writing anything.
Prints the selected duration, the remaining duration and the segments
each track keeps, with a timeline of kept (█) and removed (░) time.

Example:
  media-cutter plan --source holiday.mov --start 00:01:10 --end 00:02:05`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&planSourcePath, "source", "", "Path to source video file (required)")
	planCmd.Flags().StringVar(&planStartTime, "start", "", "Selection start: HH:MM:SS[.fff], MM:SS or seconds (required)")
	planCmd.Flags().StringVar(&planEndTime, "end", "", "Selection end: HH:MM:SS[.fff], MM:SS or seconds (required)")
	planCmd.MarkFlagRequired("source")
	planCmd.MarkFlagRequired("start")
	planCmd.MarkFlagRequired("end")
}

func runPlan(cmd *cobra.Command, args []string) error {
	c := GetConfig()
	inspector := ffmpeg.NewProber(ffmpeg.WithFFprobePath(c.FFmpeg.FFprobePath))

	return RunPlanWithDependencies(cmd.Context(), inspector, filesystem.NewChecker(),
		planSourcePath, planStartTime, planEndTime, os.Stdout)
}

// RunPlanWithDependencies runs the plan command with injected dependencies (for testing)
func RunPlanWithDependencies(
	ctx context.Context,
	inspector video.Inspector,
	fileChecker video.FileChecker,
	sourcePath string,
	startTime string,
	endTime string,
	output OutputWriter,
) error {
	sel, err := video.ParseSelection(startTime, endTime)
	if err != nil {
		return err
	}

	src, err := inspectSource(ctx, inspector, fileChecker, sourcePath)
	if err != nil {
		return err
	}

	plan, err := video.Plan(src.Duration, src.Kinds(), sel)
	if err != nil {
		return err
	}

	fmt.Fprintln(output, headingStyle.Render(src.Path))
	fmt.Fprintln(output, RenderTimeline(src.Duration, sel, timelineWidth))
	fmt.Fprintf(output, "Selected:  %s (%ss)\n", sel.Duration().Timecode(), sel.Duration())
	fmt.Fprintf(output, "Remaining: %s (%ss)\n", plan.OutputDuration(video.TrackVideo).Timecode(), plan.OutputDuration(video.TrackVideo))

	for _, kind := range plan.Kinds() {
		segs, _ := plan.Segments(kind)
		fmt.Fprintf(output, "%s:\n", kind)
		if len(segs) == 0 {
			fmt.Fprintf(output, "  (nothing kept)\n")
		}
		for i, s := range segs {
			fmt.Fprintf(output, "  [%d] %s\n", i, s)
		}
	}

	if sel.CoversAll(src.Duration) {
		fmt.Fprintf(output, "Warning: the selection covers the whole video, an export would be empty\n")
	}
	return nil
}

// RenderTimeline draws the source as width cells, marking each cell kept
// or removed by where its midpoint falls
func RenderTimeline(duration video.Time, sel video.Selection, width int) string {
	if width <= 0 || !duration.After(video.Time{}) {
		return ""
	}

	cut := sel.Range()
	var b strings.Builder
	run, runCut := 0, false
	flush := func() {
		if run == 0 {
			return
		}
		if runCut {
			b.WriteString(cutStyle.Render(strings.Repeat("░", run)))
		} else {
			b.WriteString(keptStyle.Render(strings.Repeat("█", run)))
		}
	}

	for i := 0; i < width; i++ {
		// midpoint of cell i is duration * (2i+1) / (2*width)
		mid := video.FromSeconds(duration.Seconds() * float64(2*i+1) / float64(2*width))
		isCut := cut.Contains(mid)
		if i > 0 && isCut != runCut {
			flush()
			run = 0
		}
		runCut = isCut
		run++
	}
	flush()

	return b.String()
}
