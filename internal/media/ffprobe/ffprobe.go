package ffprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"merlin/internal/services"
)

// Dimensions is a video frame size in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Valid reports whether both sides are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// AspectRatio returns width divided by height, or 0 when invalid.
func (d Dimensions) AspectRatio() float64 {
	if !d.Valid() {
		return 0
	}
	return float64(d.Width) / float64(d.Height)
}

// ProbeDimensions returns the first video stream's frame size.
func ProbeDimensions(ctx context.Context, binary, path string) (Dimensions, error) {
	out, err := run(ctx, binary, path,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
	)
	if err != nil {
		return Dimensions{}, err
	}
	return ParseDimensions(out)
}

// ProbeDuration returns the container duration in seconds.
func ProbeDuration(ctx context.Context, binary, path string) (float64, error) {
	out, err := run(ctx, binary, path,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
	)
	if err != nil {
		return 0, err
	}
	return ParseDuration(out)
}

// ParseDimensions parses "WIDTHxHEIGHT" as printed by the csv writer. Only the
// first non-empty line is considered.
func ParseDimensions(output string) (Dimensions, error) {
	line := firstLine(output)
	w, h, ok := strings.Cut(line, "x")
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: unexpected dimensions %q", services.ErrProbeFailed, line)
	}
	width, errW := strconv.Atoi(strings.TrimSpace(w))
	height, errH := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(h, "x")))
	dims := Dimensions{Width: width, Height: height}
	if errW != nil || errH != nil || !dims.Valid() {
		return Dimensions{}, fmt.Errorf("%w: unexpected dimensions %q", services.ErrProbeFailed, line)
	}
	return dims, nil
}

// ParseDuration parses a seconds value such as "12.345000".
func ParseDuration(output string) (float64, error) {
	line := firstLine(output)
	value, err := strconv.ParseFloat(line, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, fmt.Errorf("%w: unexpected duration %q", services.ErrProbeFailed, line)
	}
	return value, nil
}

func run(ctx context.Context, binary, path string, args ...string) (string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty path", services.ErrProbeFailed)
	}
	args = append(args, "--", path)
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && detail != "" {
			return "", fmt.Errorf("%w: %s: %s", services.ErrProbeFailed, filepath.Base(path), detail)
		}
		return "", fmt.Errorf("%w: %s: %w", services.ErrProbeFailed, filepath.Base(path), err)
	}
	return string(output), nil
}

func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
