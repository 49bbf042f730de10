//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"media-cutter/domain/video"

	"github.com/cucumber/godog"
)

// plannerContext holds test state for planning scenarios
type plannerContext struct {
	duration video.Time
	tracks   []video.TrackKind
	plan     video.CompositionPlan
	err      error
}

// SharedPlannerContext is reset before each scenario via Before hook
var SharedPlannerContext *plannerContext

func getPlannerContext() *plannerContext {
	return SharedPlannerContext
}

func InitializePlannerScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedPlannerContext = &plannerContext{}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedPlannerContext = nil
		return c, nil
	})

	ctx.Step(`^a (\d+) second source with tracks "([^"]*)"$`, aSourceWithTracks)
	ctx.Step(`^I plan cutting ([\d.]+) to ([\d.]+) seconds$`, iPlanCutting)
	ctx.Step(`^I try to plan cutting ([\d.]+) to ([\d.]+) seconds$`, iTryToPlanCutting)
	ctx.Step(`^the "([^"]*)" track keeps:$`, theTrackKeeps)
	ctx.Step(`^the "([^"]*)" track keeps nothing$`, theTrackKeepsNothing)
	ctx.Step(`^the plan has no "([^"]*)" track$`, thePlanHasNoTrack)
	ctx.Step(`^the output lasts ([\d.]+) seconds$`, theOutputLasts)
	ctx.Step(`^planning fails with an invalid range$`, planningFailsWithAnInvalidRange)
}

// parseTrackKinds parses a comma-separated list such as "video,audio"
func parseTrackKinds(list string) ([]video.TrackKind, error) {
	var kinds []video.TrackKind
	for _, name := range strings.Split(list, ",") {
		k, err := video.ParseTrackKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func aSourceWithTracks(seconds int, list string) error {
	p := getPlannerContext()
	kinds, err := parseTrackKinds(list)
	if err != nil {
		return err
	}
	p.duration = video.Seconds(int64(seconds))
	p.tracks = kinds
	return nil
}

func plan(start, end string) error {
	p := getPlannerContext()
	s, err := video.ParseDecimalSeconds(start)
	if err != nil {
		return err
	}
	e, err := video.ParseDecimalSeconds(end)
	if err != nil {
		return err
	}
	p.plan, p.err = video.Plan(p.duration, p.tracks, video.Selection{Start: s, End: e})
	return nil
}

func iPlanCutting(start, end string) error {
	if err := plan(start, end); err != nil {
		return err
	}
	if p := getPlannerContext(); p.err != nil {
		return fmt.Errorf("unexpected error: %v", p.err)
	}
	return nil
}

func iTryToPlanCutting(start, end string) error {
	return plan(start, end)
}

func segmentsFor(kindName string) ([]video.Segment, error) {
	kind, err := video.ParseTrackKind(kindName)
	if err != nil {
		return nil, err
	}
	segs, ok := getPlannerContext().plan.Segments(kind)
	if !ok {
		return nil, fmt.Errorf("plan has no %s track", kind)
	}
	return segs, nil
}

func theTrackKeeps(kindName string, table *godog.Table) error {
	segs, err := segmentsFor(kindName)
	if err != nil {
		return err
	}

	rows := table.Rows[1:]
	if len(segs) != len(rows) {
		return fmt.Errorf("expected %d segments, got %d: %v", len(rows), len(segs), segs)
	}

	for i, row := range rows {
		var bounds [3]video.Time
		for j := range bounds {
			t, err := video.ParseDecimalSeconds(row.Cells[j].Value)
			if err != nil {
				return err
			}
			bounds[j] = t
		}
		want := video.Segment{
			SourceRange:       video.TimeRange{Start: bounds[0], End: bounds[1]},
			DestinationOffset: bounds[2],
		}
		if !segs[i].Equal(want) {
			return fmt.Errorf("segment %d: expected %s, got %s", i, want, segs[i])
		}
	}
	return nil
}

func theTrackKeepsNothing(kindName string) error {
	segs, err := segmentsFor(kindName)
	if err != nil {
		return err
	}
	if len(segs) != 0 {
		return fmt.Errorf("expected no segments, got %v", segs)
	}
	return nil
}

func thePlanHasNoTrack(kindName string) error {
	kind, err := video.ParseTrackKind(kindName)
	if err != nil {
		return err
	}
	if getPlannerContext().plan.Has(kind) {
		return fmt.Errorf("expected no %s entry in the plan", kind)
	}
	return nil
}

func theOutputLasts(seconds string) error {
	want, err := video.ParseDecimalSeconds(seconds)
	if err != nil {
		return err
	}
	got := getPlannerContext().plan.OutputDuration(video.TrackVideo)
	if !got.Equal(want) {
		return fmt.Errorf("expected output of %s, got %s", want, got)
	}
	return nil
}

func planningFailsWithAnInvalidRange() error {
	p := getPlannerContext()
	if !errors.Is(p.err, video.ErrInvalidRange) {
		return fmt.Errorf("expected invalid range error, got %v", p.err)
	}
	return nil
}
