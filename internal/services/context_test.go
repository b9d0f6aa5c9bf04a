package services_test

import (
	"context"
	"testing"

	"merlin/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithJobID(ctx, "job-1")
	ctx = services.WithJobKind(ctx, "render")
	ctx = services.WithStage(ctx, "burn-in")

	if id, ok := services.JobIDFromContext(ctx); !ok || id != "job-1" {
		t.Fatalf("unexpected job id: %v %v", id, ok)
	}
	if kind, ok := services.JobKindFromContext(ctx); !ok || kind != "render" {
		t.Fatalf("unexpected job kind: %v %v", kind, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "burn-in" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithJobID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("blank stage should not be stored")
	}
	if _, ok := services.JobIDFromContext(ctx); ok {
		t.Fatal("blank job id should not be stored")
	}
}
