//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appexport "media-cutter/application/export"
	"media-cutter/cmd"
	"media-cutter/domain/library"
	"media-cutter/domain/video"

	"github.com/cucumber/godog"
)

// mockInspector reports a fixed source for every path
type mockInspector struct {
	info *video.SourceInfo
}

func (m *mockInspector) Inspect(ctx context.Context, path string) (*video.SourceInfo, error) {
	info := *m.info
	info.Path = path
	return &info, nil
}

// mockEncoder records plans and ends every encode with status
type mockEncoder struct {
	plans  []video.CompositionPlan
	result video.EncodeResult
}

func (m *mockEncoder) Encode(ctx context.Context, src *video.SourceInfo, plan video.CompositionPlan, outputPath string) (video.EncodeResult, error) {
	m.plans = append(m.plans, plan)
	return m.result, nil
}

// mockLibrary stores saved paths in memory
type mockLibrary struct {
	saved     []string
	failError error
}

func (m *mockLibrary) Save(ctx context.Context, path string) (*library.Asset, error) {
	if m.failError != nil {
		return nil, m.failError
	}
	m.saved = append(m.saved, path)
	name := path[strings.LastIndex(path, "/")+1:]
	return &library.Asset{ID: fmt.Sprintf("asset-%d", len(m.saved)), Name: name, Location: "/library/" + name}, nil
}

// mockFiles simulates file existence and removal
type mockFiles struct {
	existingFiles map[string]bool
}

func (m *mockFiles) Exists(path string) bool {
	return m.existingFiles[path]
}

func (m *mockFiles) RemoveIfExists(path string) error {
	delete(m.existingFiles, path)
	return nil
}

// noopIndicator hides the busy spinner in scenarios
type noopIndicator struct{}

func (noopIndicator) Show(string) {}
func (noopIndicator) Hide()       {}

// exportContext holds test state for export scenarios
type exportContext struct {
	sourcePath string
	inspector  *mockInspector
	encoder    *mockEncoder
	library    *mockLibrary
	files      *mockFiles
	output     *bytes.Buffer
	err        error
}

// SharedExportContext is reset before each scenario via Before hook
var SharedExportContext *exportContext

func getExportContext() *exportContext {
	return SharedExportContext
}

func InitializeExportScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedExportContext = &exportContext{
			inspector: &mockInspector{},
			encoder:   &mockEncoder{result: video.EncodeResult{Status: video.EncodeCompleted}},
			library:   &mockLibrary{},
			files:     &mockFiles{existingFiles: make(map[string]bool)},
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedExportContext = nil
		return c, nil
	})

	ctx.Step(`^a (\d+) second source video at "([^"]*)" with tracks "([^"]*)"$`, aSourceVideoWithTracks)
	ctx.Step(`^no source video exists at "([^"]*)"$`, noSourceVideoExistsAt)
	ctx.Step(`^the encoder fails with "([^"]*)"$`, theEncoderFailsWith)
	ctx.Step(`^the encoder is cancelled$`, theEncoderIsCancelled)
	ctx.Step(`^the library rejects saves with "([^"]*)"$`, theLibraryRejectsSavesWith)
	ctx.Step(`^I export from "([^"]*)" to "([^"]*)"$`, iExportFromTo)
	ctx.Step(`^I export "([^"]*)" from "([^"]*)" to "([^"]*)"$`, iExportPathFromTo)
	ctx.Step(`^the encoder should receive (\d+) "([^"]*)" segments$`, theEncoderShouldReceiveSegments)
	ctx.Step(`^the encoder should not have run$`, theEncoderShouldNotHaveRun)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the library should hold (\d+) exports?$`, theLibraryShouldHold)
	ctx.Step(`^the export should succeed$`, theExportShouldSucceed)
	ctx.Step(`^the export should fail$`, theExportShouldFail)
}

func aSourceVideoWithTracks(seconds int, path, list string) error {
	e := getExportContext()
	kinds, err := parseTrackKinds(list)
	if err != nil {
		return err
	}

	duration := video.Seconds(int64(seconds))
	info := &video.SourceInfo{Duration: duration}
	for _, k := range kinds {
		info.Tracks = append(info.Tracks, video.SourceTrack{Kind: k, Duration: duration})
	}

	e.sourcePath = path
	e.inspector.info = info
	e.files.existingFiles[path] = true
	return nil
}

func noSourceVideoExistsAt(path string) error {
	e := getExportContext()
	e.files.existingFiles[path] = false
	return nil
}

func theEncoderFailsWith(reason string) error {
	getExportContext().encoder.result = video.EncodeResult{Status: video.EncodeFailed, Reason: reason}
	return nil
}

func theEncoderIsCancelled() error {
	getExportContext().encoder.result = video.EncodeResult{Status: video.EncodeCancelled}
	return nil
}

func theLibraryRejectsSavesWith(reason string) error {
	getExportContext().library.failError = errors.New(reason)
	return nil
}

func runExport(path, start, end string) {
	e := getExportContext()
	service := appexport.NewService(e.inspector, e.encoder, e.library, e.files, e.files,
		appexport.WithTempDir("/tmp"),
		appexport.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	)
	e.err = cmd.RunExportWithDependencies(context.Background(), service, noopIndicator{}, path, start, end, e.output)
}

func iExportFromTo(start, end string) error {
	runExport(getExportContext().sourcePath, start, end)
	return nil
}

func iExportPathFromTo(path, start, end string) error {
	runExport(path, start, end)
	return nil
}

func theEncoderShouldReceiveSegments(count int, kindName string) error {
	e := getExportContext()
	if len(e.encoder.plans) != 1 {
		return fmt.Errorf("expected one encode, got %d", len(e.encoder.plans))
	}
	kind, err := video.ParseTrackKind(kindName)
	if err != nil {
		return err
	}
	segs, _ := e.encoder.plans[0].Segments(kind)
	if len(segs) != count {
		return fmt.Errorf("expected %d %s segments, got %d", count, kind, len(segs))
	}
	return nil
}

func theEncoderShouldNotHaveRun() error {
	if n := len(getExportContext().encoder.plans); n != 0 {
		return fmt.Errorf("expected no encode, got %d", n)
	}
	return nil
}

func theOutputShouldContain(expected string) error {
	e := getExportContext()
	if !strings.Contains(e.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, e.output.String())
	}
	return nil
}

func theLibraryShouldHold(count int) error {
	if n := len(getExportContext().library.saved); n != count {
		return fmt.Errorf("expected %d saved exports, got %d", count, n)
	}
	return nil
}

func theExportShouldSucceed() error {
	if err := getExportContext().err; err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func theExportShouldFail() error {
	if getExportContext().err == nil {
		return fmt.Errorf("expected export to fail")
	}
	return nil
}
