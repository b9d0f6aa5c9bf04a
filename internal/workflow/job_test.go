package workflow

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"merlin/internal/logging"
)

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateIdle, StateStage1Running, true},
		{StateIdle, StateFailed, true},
		{StateIdle, StateStage2Running, false},
		{StateStage1Running, StateStage2Running, true},
		{StateStage1Running, StateCleaningUp, true},
		{StateStage1Running, StateSucceeded, false},
		{StateStage2Running, StateParsingOutput, true},
		{StateStage2Running, StateCleaningUp, true},
		{StateParsingOutput, StateCleaningUp, true},
		{StateParsingOutput, StateSucceeded, false},
		{StateCleaningUp, StateSucceeded, true},
		{StateCleaningUp, StateCancelled, true},
		{StateSucceeded, StateFailed, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestJobTransitionRejectsInvalid(t *testing.T) {
	job := Job{ID: "abc", State: StateIdle}
	if err := job.transition(StateCleaningUp); err == nil {
		t.Fatal("expected error for Idle -> CleaningUp")
	}
	if job.State != StateIdle {
		t.Fatalf("state changed on rejected transition: %s", job.State)
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []State{StateSucceeded, StateFailed, StateCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	if StateCleaningUp.Terminal() {
		t.Error("cleaning_up is not terminal")
	}
}

func TestJobElapsed(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	job := Job{StartedAt: start}
	if job.Elapsed() != 0 {
		t.Fatal("running job should report zero elapsed")
	}
	job.FinishedAt = start.Add(3 * time.Second)
	if job.Elapsed() != 3*time.Second {
		t.Fatalf("elapsed = %s", job.Elapsed())
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		video, suffix, ext, want string
	}{
		{"/v/clip.mov", "_captioned", ".mp4", "/v/clip_captioned.mp4"},
		{"/v/clip.final.mkv", "_captioned", "", "/v/clip.final_captioned.mp4"},
		{"/v/clip", "-subs", "mkv", "/v/clip-subs.mkv"},
	}
	for _, tt := range tests {
		got := DefaultOutputPath(filepath.FromSlash(tt.video), tt.suffix, tt.ext)
		if got != filepath.FromSlash(tt.want) {
			t.Errorf("DefaultOutputPath(%q) = %q, want %q", tt.video, got, tt.want)
		}
	}
}

func TestLockPathIsStablePerTarget(t *testing.T) {
	a := LockPath("/locks", KindRender, "/v/a.mp4")
	b := LockPath("/locks", KindRender, "/v/b.mp4")
	if a == b {
		t.Fatal("different targets must not share a lock")
	}
	if a != LockPath("/locks", KindRender, "/v/a.mp4") {
		t.Fatal("lock path must be deterministic")
	}
	if LockPath("/locks", KindTranscribe, "/v/a.mp4") == a {
		t.Fatal("job kinds must not share a lock")
	}
	name := filepath.Base(a)
	if !strings.HasPrefix(name, "render-") || len(name) != len("render-")+12+len(".lock") {
		t.Fatalf("unexpected lock file name %q", name)
	}
}

func TestHeldLocks(t *testing.T) {
	dir := t.TempDir()
	held, err := acquireLock(dir, KindRender, "/v/out.mp4")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	free, err := acquireLock(dir, KindTranscribe, "/v/in.mov")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := free.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	got, err := HeldLocks(dir)
	if err != nil {
		t.Fatalf("HeldLocks: %v", err)
	}
	if len(got) != 1 || got[0] != LockPath(dir, KindRender, "/v/out.mp4") {
		t.Fatalf("held = %v", got)
	}
	_ = held.Unlock()

	if got, _ := HeldLocks(dir); len(got) != 0 {
		t.Fatalf("expected no held locks after unlock, got %v", got)
	}
}

func TestLogProgressUsesFivePercentBuckets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	run := &jobRun{sampler: logging.NewProgressSampler(progressLogBucket)}

	for _, p := range []int{0, 2, 4, 5, 7, 9, 10, 12, 15} {
		run.logProgress(logger, p, "Transcribing")
	}
	var got []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if i := strings.Index(line, `"percent":`); i >= 0 {
			rest := line[i+len(`"percent":`):]
			got = append(got, rest[:strings.IndexAny(rest, ",}")])
		}
	}
	want := []string{"0", "5", "10", "15"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("logged percents %v, want %v", got, want)
	}
}
