package ffprobe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"merlin/internal/services"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		in      string
		want    Dimensions
		wantErr bool
	}{
		{"1920x1080\n", Dimensions{1920, 1080}, false},
		{"\n 720x1280 \n", Dimensions{720, 1280}, false},
		{"1280x720x\n", Dimensions{1280, 720}, false},
		{"", Dimensions{}, true},
		{"N/A", Dimensions{}, true},
		{"0x1080", Dimensions{}, true},
		{"axb", Dimensions{}, true},
	}
	for _, tt := range tests {
		got, err := ParseDimensions(tt.in)
		if tt.wantErr {
			if !errors.Is(err, services.ErrProbeFailed) {
				t.Errorf("ParseDimensions(%q) err = %v, want ErrProbeFailed", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDimensions(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	if got, err := ParseDuration("12.345000\n"); err != nil || got != 12.345 {
		t.Fatalf("ParseDuration = %v, %v", got, err)
	}
	for _, bad := range []string{"", "N/A", "-1", "0", "nan"} {
		if _, err := ParseDuration(bad); !errors.Is(err, services.ErrProbeFailed) {
			t.Errorf("ParseDuration(%q) err = %v", bad, err)
		}
	}
}

func TestDimensionsHelpers(t *testing.T) {
	d := Dimensions{Width: 1080, Height: 1920}
	if d.String() != "1080x1920" {
		t.Fatalf("String() = %q", d.String())
	}
	if d.AspectRatio() >= 1 {
		t.Fatalf("expected portrait aspect, got %v", d.AspectRatio())
	}
	if (Dimensions{}).AspectRatio() != 0 {
		t.Fatal("invalid dimensions should have zero aspect")
	}
}

func writeStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestProbeWithStubBinary(t *testing.T) {
	stub := writeStub(t, `case "$*" in
  *stream=width,height*) echo "1280x720" ;;
  *format=duration*) echo "42.500000" ;;
esac
`)
	dims, err := ProbeDimensions(context.Background(), stub, "/videos/clip.mp4")
	if err != nil {
		t.Fatalf("ProbeDimensions: %v", err)
	}
	if dims != (Dimensions{1280, 720}) {
		t.Fatalf("dims = %v", dims)
	}
	duration, err := ProbeDuration(context.Background(), stub, "/videos/clip.mp4")
	if err != nil || duration != 42.5 {
		t.Fatalf("ProbeDuration = %v, %v", duration, err)
	}
}

func TestProbeFailureIsMarked(t *testing.T) {
	stub := writeStub(t, `echo "clip.mp4: Invalid data found when processing input" 1>&2
exit 1
`)
	_, err := ProbeDimensions(context.Background(), stub, "/videos/clip.mp4")
	if !errors.Is(err, services.ErrProbeFailed) {
		t.Fatalf("expected ErrProbeFailed, got %v", err)
	}
	if _, err := ProbeDuration(context.Background(), filepath.Join(t.TempDir(), "missing"), "/videos/clip.mp4"); !errors.Is(err, services.ErrProbeFailed) {
		t.Fatalf("expected ErrProbeFailed for missing binary, got %v", err)
	}
}
