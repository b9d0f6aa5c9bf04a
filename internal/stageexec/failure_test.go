package stageexec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"merlin/internal/services"
)

func TestStageErrorFromExit(t *testing.T) {
	tail := strings.Repeat("x", 900) + "last words"
	err := StageError("render", "ffmpeg", &ExitError{Command: "ffmpeg", Code: 1, Tail: tail})

	var stageErr *services.StageFailedError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageFailedError, got %T", err)
	}
	if stageErr.ExitCode != 1 || stageErr.Stage != "render" || stageErr.Tool != "ffmpeg" {
		t.Fatalf("unexpected fields: %+v", stageErr)
	}
	if len(stageErr.Excerpt) > ExcerptBytes || !strings.HasSuffix(stageErr.Excerpt, "last words") {
		t.Fatalf("excerpt not bounded to the tail: %d bytes", len(stageErr.Excerpt))
	}
}

func TestStageErrorFromStart(t *testing.T) {
	err := StageError("recognize", "whisper", &StartError{Command: "whisper", Err: errors.New("no such file")})
	var stageErr *services.StageFailedError
	if !errors.As(err, &stageErr) || stageErr.ExitCode != -1 {
		t.Fatalf("expected StageFailedError with exit -1, got %v", err)
	}
}

func TestStageErrorPassesCancellation(t *testing.T) {
	err := StageError("recognize", "whisper", fmt.Errorf("whisper: %w", context.Canceled))
	var stageErr *services.StageFailedError
	if errors.As(err, &stageErr) {
		t.Fatal("cancellation must not become a stage failure")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if StageError("x", "y", nil) != nil {
		t.Fatal("nil in, nil out")
	}
}
