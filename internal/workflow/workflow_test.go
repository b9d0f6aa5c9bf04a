package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"merlin/internal/caption"
	"merlin/internal/config"
	"merlin/internal/logging"
	"merlin/internal/services"
	"merlin/internal/subtitles"
	"merlin/internal/testsupport"
	"merlin/internal/workflow"
)

type stateRecorder struct {
	mu     sync.Mutex
	states []workflow.State
}

func (r *stateRecorder) observe(job workflow.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, job.State)
}

func (r *stateRecorder) snapshot() []workflow.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]workflow.State(nil), r.states...)
}

func newController(t *testing.T, cfg *config.Config, rec *stateRecorder) *workflow.Controller {
	t.Helper()
	var opts []workflow.Option
	if rec != nil {
		opts = append(opts, workflow.WithObserver(rec.observe))
	}
	ctrl, err := workflow.New(cfg, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("workflow.New: %v", err)
	}
	return ctrl
}

func writeVideo(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(testsupport.BaseDir(cfg), "media", "My Clip.mov")
	testsupport.WriteFile(t, path, 256)
	return path
}

func fixtureWAV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	testsupport.WriteWAV(t, path, 2*time.Second)
	return path
}

func sampleTranscript() caption.Transcript {
	return caption.Transcript{Words: []caption.Word{
		{Text: "Hello", Start: 0, End: 0.4, Confidence: 0.9},
		{Text: "big", Start: 0.5, End: 0.8, Confidence: 0.9},
		{Text: "world", Start: 0.9, End: 1.4, Confidence: 0.9},
	}}
}

// assertWorkDirClean fails when anything other than the lock directory is
// left in the work directory.
func assertWorkDirClean(t *testing.T, cfg *config.Config) {
	t.Helper()
	entries, err := os.ReadDir(cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != "locks" {
			t.Fatalf("temp entry left behind: %s", entry.Name())
		}
	}
}

func TestTranscribeSucceeds(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FFmpegScript(fixtureWAV(t), 4, 0)),
		testsupport.WithStubScript("ffprobe", testsupport.FFprobeScript("1280x720", "4.000000")),
		testsupport.WithStubScript("whisper", testsupport.WhisperScript(testsupport.WhisperPayload, 0)),
	)
	rec := &stateRecorder{}
	ctrl := newController(t, cfg, rec)
	video := writeVideo(t, cfg)

	var mu sync.Mutex
	var updates []workflow.TranscribeProgress
	transcript, err := ctrl.Transcribe(context.Background(), video, func(p workflow.TranscribeProgress) {
		mu.Lock()
		updates = append(updates, p)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if len(transcript.Words) != 4 {
		t.Fatalf("expected 4 words, got %d", len(transcript.Words))
	}
	if transcript.Words[0].Text != "Hello" || transcript.Words[2].Confidence != 1 {
		t.Fatalf("unexpected words %+v", transcript.Words)
	}
	if transcript.Source != video {
		t.Fatalf("source = %q, want %q", transcript.Source, video)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(updates) == 0 || updates[len(updates)-1].Progress != 100 {
		t.Fatalf("progress must end at 100: %+v", updates)
	}
	for i := 1; i < len(updates); i++ {
		if updates[i].Progress <= updates[i-1].Progress {
			t.Fatalf("progress not strictly increasing at %d: %+v", i, updates)
		}
	}

	want := []workflow.State{
		workflow.StateStage1Running,
		workflow.StateStage2Running,
		workflow.StateParsingOutput,
		workflow.StateCleaningUp,
		workflow.StateSucceeded,
	}
	got := rec.snapshot()
	if strings.Join(statesToStrings(got), ",") != strings.Join(statesToStrings(want), ",") {
		t.Fatalf("states = %v, want %v", got, want)
	}
	assertWorkDirClean(t, cfg)
}

func statesToStrings(states []workflow.State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}

func TestTranscribeRecognizerFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FFmpegScript(fixtureWAV(t), 2, 0)),
		testsupport.WithStubScript("whisper", testsupport.WhisperScript("", 3)),
	)
	rec := &stateRecorder{}
	ctrl := newController(t, cfg, rec)

	_, err := ctrl.Transcribe(context.Background(), writeVideo(t, cfg), nil)
	var stageErr *services.StageFailedError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageFailedError, got %v", err)
	}
	if stageErr.Stage != "recognize" || stageErr.Tool != "whisper" || stageErr.ExitCode != 3 {
		t.Fatalf("unexpected stage error %+v", stageErr)
	}
	if !strings.Contains(stageErr.Excerpt, "model failed to load") {
		t.Fatalf("excerpt missing diagnostic: %q", stageErr.Excerpt)
	}
	states := rec.snapshot()
	if last := states[len(states)-1]; last != workflow.StateFailed {
		t.Fatalf("final state = %s", last)
	}
	assertWorkDirClean(t, cfg)
}

func TestTranscribeMissingRecognizerOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FFmpegScript("", 1, 0)),
		testsupport.WithStubScript("whisper", testsupport.WhisperScript("", 0)),
	)
	ctrl := newController(t, cfg, nil)

	_, err := ctrl.Transcribe(context.Background(), writeVideo(t, cfg), nil)
	if !errors.Is(err, services.ErrOutputParse) {
		t.Fatalf("expected ErrOutputParse, got %v", err)
	}
	assertWorkDirClean(t, cfg)
}

func TestTranscribeRejectsUnorderedRecognizerWords(t *testing.T) {
	payload := `{"segments":[
  {"words":[{"word":" later","start":2.0,"end":2.4}]},
  {"words":[{"word":" sooner","start":1.0,"end":1.3}]}
]}`
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FFmpegScript("", 1, 0)),
		testsupport.WithStubScript("whisper", testsupport.WhisperScript(payload, 0)),
	)
	rec := &stateRecorder{}
	ctrl := newController(t, cfg, rec)

	_, err := ctrl.Transcribe(context.Background(), writeVideo(t, cfg), nil)
	var parseErr *services.OutputParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected OutputParseError, got %v", err)
	}
	states := rec.snapshot()
	if last := states[len(states)-1]; last != workflow.StateFailed {
		t.Fatalf("final state = %s", last)
	}
	assertWorkDirClean(t, cfg)
}

func TestTranscribeExtractFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FFmpegScript("", 1, 1)),
	)
	ctrl := newController(t, cfg, nil)

	_, err := ctrl.Transcribe(context.Background(), writeVideo(t, cfg), nil)
	var stageErr *services.StageFailedError
	if !errors.As(err, &stageErr) || stageErr.Stage != "extract" {
		t.Fatalf("expected extract failure, got %v", err)
	}
	assertWorkDirClean(t, cfg)
}

func TestTranscribeCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffmpeg", "echo started 1>&2\nsleep 30\n"),
	)
	rec := &stateRecorder{}
	ctrl := newController(t, cfg, rec)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := ctrl.Transcribe(ctx, writeVideo(t, cfg), nil)
	if !errors.Is(err, workflow.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatal("ErrCancelled should match context.Canceled")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("cancellation took %s", elapsed)
	}
	states := rec.snapshot()
	if last := states[len(states)-1]; last != workflow.StateCancelled {
		t.Fatalf("final state = %s", last)
	}
	assertWorkDirClean(t, cfg)
}

func TestTranscribeMissingInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctrl := newController(t, cfg, nil)
	_, err := ctrl.Transcribe(context.Background(), filepath.Join(t.TempDir(), "absent.mp4"), nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRenderSucceeds(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FFmpegScript("", 4, 0)),
		testsupport.WithStubScript("ffprobe", testsupport.FFprobeScript("1280x720", "4.000000")),
	)
	ctrl := newController(t, cfg, nil)
	video := writeVideo(t, cfg)

	var updates []workflow.RenderProgress
	result, err := ctrl.Render(context.Background(), workflow.RenderRequest{
		VideoPath:  video,
		Transcript: sampleTranscript(),
	}, func(p workflow.RenderProgress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wantOutput := filepath.Join(filepath.Dir(video), "My Clip_captioned.mp4")
	if result.OutputPath != wantOutput {
		t.Fatalf("output = %q, want %q", result.OutputPath, wantOutput)
	}
	if result.SizeBytes <= 0 {
		t.Fatalf("expected non-empty output, got %d bytes", result.SizeBytes)
	}
	if result.Resolution != (subtitles.Resolution{Width: 1280, Height: 720}) {
		t.Fatalf("resolution = %+v", result.Resolution)
	}
	if result.Events != 3 {
		t.Fatalf("events = %d, want 3", result.Events)
	}
	if len(updates) == 0 || updates[len(updates)-1].Percent != 100 {
		t.Fatalf("progress must end at 100: %+v", updates)
	}
	for i := 1; i < len(updates); i++ {
		if updates[i].Percent <= updates[i-1].Percent {
			t.Fatalf("render progress not increasing: %+v", updates)
		}
	}
	assertWorkDirClean(t, cfg)
}

func TestRenderFailureRemovesPartialOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FFmpegScript("", 2, 1)),
		testsupport.WithStubScript("ffprobe", testsupport.FFprobeScript("1920x1080", "4.0")),
	)
	ctrl := newController(t, cfg, nil)
	video := writeVideo(t, cfg)
	output := filepath.Join(t.TempDir(), "out.mp4")

	_, err := ctrl.Render(context.Background(), workflow.RenderRequest{
		VideoPath:  video,
		Transcript: sampleTranscript(),
		OutputPath: output,
	}, nil)
	var stageErr *services.StageFailedError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageFailedError, got %v", err)
	}
	if stageErr.Stage != "render" || stageErr.Tool != "ffmpeg" || stageErr.ExitCode != 1 {
		t.Fatalf("unexpected stage error %+v", stageErr)
	}
	if !strings.Contains(stageErr.Excerpt, "Error opening output") {
		t.Fatalf("excerpt missing diagnostic: %q", stageErr.Excerpt)
	}
	if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("partial output should be removed, stat err = %v", statErr)
	}
	assertWorkDirClean(t, cfg)
}

func TestRenderProbeFallback(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FFmpegScript("", 1, 0)),
		testsupport.WithStubScript("ffprobe", testsupport.FFprobeScript("", "")),
	)
	ctrl := newController(t, cfg, nil)

	result, err := ctrl.Render(context.Background(), workflow.RenderRequest{
		VideoPath:  writeVideo(t, cfg),
		Transcript: sampleTranscript(),
	}, nil)
	if err != nil {
		t.Fatalf("Render should succeed despite probe failure: %v", err)
	}
	if result.Resolution != (subtitles.Resolution{Width: 1920, Height: 1080}) {
		t.Fatalf("expected fallback resolution, got %+v", result.Resolution)
	}
}

func TestRenderLockContention(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FFmpegScript("", 1, 0)),
	)
	ctrl := newController(t, cfg, nil)
	video := writeVideo(t, cfg)
	output := workflow.DefaultOutputPath(video, cfg.Render.OutputSuffix, cfg.Render.OutputExtension)

	if err := os.MkdirAll(cfg.LockDir(), 0o755); err != nil {
		t.Fatalf("mkdir locks: %v", err)
	}
	held := flock.New(workflow.LockPath(cfg.LockDir(), workflow.KindRender, output))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	_, err = ctrl.Render(context.Background(), workflow.RenderRequest{
		VideoPath:  video,
		Transcript: sampleTranscript(),
	}, nil)
	if !errors.Is(err, workflow.ErrJobActive) {
		t.Fatalf("expected ErrJobActive, got %v", err)
	}
}

func TestRenderRejectsEmptyTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctrl := newController(t, cfg, nil)
	_, err := ctrl.Render(context.Background(), workflow.RenderRequest{VideoPath: writeVideo(t, cfg)}, nil)
	if !errors.Is(err, caption.ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
}

func TestRenderRejectsOutputOverSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctrl := newController(t, cfg, nil)
	video := writeVideo(t, cfg)
	_, err := ctrl.Render(context.Background(), workflow.RenderRequest{
		VideoPath:  video,
		Transcript: sampleTranscript(),
		OutputPath: video,
	}, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
