package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"media-cutter/application/preview"
	"media-cutter/domain/playback"
	"media-cutter/domain/schedule"
	"media-cutter/domain/video"
	"media-cutter/infrastructure/clock"
	"media-cutter/infrastructure/eventloop"
	"media-cutter/infrastructure/ffmpeg"
	"media-cutter/infrastructure/filesystem"
	"media-cutter/infrastructure/mpv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	previewSourcePath string
	previewStartTime  string
	previewEndTime    string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview the result live in mpv",
	Long: `Open mpv and play what an export would produce, looping over it.
Type commands on stdin while it plays:

  select START END   change the selection (the preview updates once you stop typing)
  seek TIME          jump to TIME in the preview
  pause | play       stop or resume playback
  quit               close the preview

Example:
  media-cutter preview --source holiday.mov --start 1:10 --end 2:05`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVar(&previewSourcePath, "source", "", "Path to source video file (required)")
	previewCmd.Flags().StringVar(&previewStartTime, "start", "", "Initial selection start")
	previewCmd.Flags().StringVar(&previewEndTime, "end", "", "Initial selection end")
	previewCmd.MarkFlagRequired("source")
}

func runPreview(cmd *cobra.Command, args []string) error {
	c := GetConfig()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inspector := ffmpeg.NewProber(ffmpeg.WithFFprobePath(c.FFmpeg.FFprobePath))
	src, err := inspectSource(ctx, inspector, filesystem.NewChecker(), previewSourcePath)
	if err != nil {
		return err
	}

	mpvCmd, err := mpv.Launch(ctx, c.Preview.MpvPath, c.Preview.SocketPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = mpvCmd.Process.Kill()
		_ = mpvCmd.Wait()
	}()

	client := mpv.NewClient(c.Preview.SocketPath)
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return err
	}
	defer client.Close()

	loop := eventloop.New()
	session := NewPreviewSession(ctx, src, mpv.NewComposer(), mpv.NewPlayer(client),
		clock.NewScheduler(clock.WithDispatcher(loop)),
		c.Preview.Debounce(), c.Preview.PollInterval(), os.Stdout)
	defer session.Close()

	if previewStartTime != "" || previewEndTime != "" {
		session.Handle(fmt.Sprintf("select %s %s", previewStartTime, previewEndTime))
	}

	go feedCommands(os.Stdin, loop, session)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// feedCommands hands each stdin line to the session on the event loop
func feedCommands(in io.Reader, loop *eventloop.Loop, session *PreviewSession) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		loop.Dispatch(func() {
			if session.Handle(line) {
				loop.Stop()
			}
		})
	}
	loop.Dispatch(loop.Stop)
}

// PlaybackDevice is a player that can open previews
type PlaybackDevice interface {
	playback.Player
	playback.Loader
}

// PreviewSession connects typed commands to the preview service and looper.
// All methods are called from the event loop.
type PreviewSession struct {
	ctx     context.Context
	src     *video.SourceInfo
	player  PlaybackDevice
	service *preview.Service
	looper  *preview.Looper
	out     OutputWriter
}

// NewPreviewSession creates a session for one inspected source
func NewPreviewSession(
	ctx context.Context,
	src *video.SourceInfo,
	composer video.Composer,
	player PlaybackDevice,
	scheduler schedule.Scheduler,
	debounce time.Duration,
	poll time.Duration,
	out OutputWriter,
) *PreviewSession {
	s := &PreviewSession{ctx: ctx, src: src, player: player, out: out}

	s.looper = preview.NewLooper(player, scheduler, video.TimeRange{},
		preview.WithPollInterval(poll),
		preview.WithLooperLogger(logger.Named("looper")),
	)
	s.service = preview.NewService(composer, src, preview.NewDebouncer(scheduler, debounce),
		preview.WithLogger(logger.Named("preview")),
		preview.WithRebuildHandler(s.onRebuild),
	)
	return s
}

func (s *PreviewSession) onRebuild(p video.Preview, err error) {
	if err != nil {
		fmt.Fprintf(s.out, "Preview not updated: %v\n", err)
		return
	}

	s.looper.Stop()
	if err := s.player.Load(s.ctx, p.Locator()); err != nil {
		fmt.Fprintf(s.out, "Preview not loaded: %v\n", err)
		return
	}
	s.looper.SetRange(video.TimeRange{End: p.Duration()})
	if err := s.looper.PositionStopped(s.ctx, video.Time{}); err != nil {
		logger.Warn("failed to start preview playback", zap.Error(err))
	}
	fmt.Fprintf(s.out, "Preview ready: %s\n", p.Duration().Timecode())
}

// Handle runs one command line and reports whether the session should end
func (s *PreviewSession) Handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "select", "s":
		if len(fields) != 3 {
			fmt.Fprintln(s.out, "usage: select START END")
			return false
		}
		s.selectRange(fields[1], fields[2])
	case "seek":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "usage: seek TIME")
			return false
		}
		s.seek(fields[1])
	case "pause":
		s.looper.Stop()
		if err := s.player.Pause(s.ctx); err != nil {
			fmt.Fprintf(s.out, "Pause failed: %v\n", err)
		}
	case "play":
		if err := s.player.Play(s.ctx); err != nil {
			fmt.Fprintf(s.out, "Play failed: %v\n", err)
			return false
		}
		s.looper.Start()
	case "quit", "q", "exit":
		return true
	case "help":
		fmt.Fprintln(s.out, "commands: select START END | seek TIME | pause | play | quit")
	default:
		fmt.Fprintf(s.out, "unknown command %q (try help)\n", fields[0])
	}
	return false
}

func (s *PreviewSession) selectRange(start, end string) {
	sel, err := video.ParseSelection(start, end)
	if err == nil {
		err = sel.Validate(s.src.Duration)
	}
	if err != nil {
		fmt.Fprintf(s.out, "Invalid selection: %v\n", err)
		return
	}

	remaining := s.src.Duration.Sub(sel.Duration())
	fmt.Fprintf(s.out, "Selected %s, %s remain\n", sel.Duration().Timecode(), remaining.Timecode())
	s.service.SelectionChanged(sel)
}

func (s *PreviewSession) seek(arg string) {
	t, err := video.ParseTimestamp(arg)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid time: %v\n", err)
		return
	}
	if !s.looper.Range().Contains(t) {
		fmt.Fprintf(s.out, "%s is outside the preview (%s)\n", t.Timecode(), s.looper.Range())
		return
	}
	if err := s.looper.PositionChanging(s.ctx, t); err != nil {
		fmt.Fprintf(s.out, "Seek failed: %v\n", err)
		return
	}
	if err := s.looper.PositionStopped(s.ctx, t); err != nil {
		fmt.Fprintf(s.out, "Seek failed: %v\n", err)
	}
}

// Close stops polling and releases the preview
func (s *PreviewSession) Close() error {
	s.looper.Stop()
	return s.service.Close()
}
