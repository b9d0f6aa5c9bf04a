package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"merlin/internal/stageexec"
)

const (
	// StageExtract and StageRender name the stages in StageFailedError.
	StageExtract = "extract"
	StageRender  = "render"
	Tool         = "ffmpeg"

	SampleRate = 16000
	Channels   = 1
)

// Progress reports how far the transcoder has got. Total is the input
// duration announced in ffmpeg's banner, or 0 when not yet known.
type Progress struct {
	Seconds float64
	Total   float64
}

// Option configures the service.
type Option func(*Service)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec stageexec.Executor) Option {
	return func(s *Service) {
		if exec != nil {
			s.exec = exec
		}
	}
}

// Service runs ffmpeg.
type Service struct {
	binary string
	exec   stageexec.Executor
}

// New constructs an ffmpeg service.
func New(binary string, opts ...Option) (*Service, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	s := &Service{binary: binary, exec: stageexec.CommandExecutor{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ExtractArgs builds the audio extraction invocation.
func ExtractArgs(source, dest string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-i", source,
		"-vn",
		"-ar", fmt.Sprint(SampleRate),
		"-ac", fmt.Sprint(Channels),
		"-c:a", "pcm_s16le",
		"-progress", "pipe:2",
		"-nostats",
		"-y",
		dest,
	}
}

// BurnArgs builds the subtitle burn-in invocation. Audio is stream-copied.
func BurnArgs(video, subtitlePath, output string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-i", video,
		"-vf", "subtitles=" + EscapeFilterPath(subtitlePath),
		"-c:a", "copy",
		"-progress", "pipe:2",
		"-nostats",
		"-y",
		output,
	}
}

// EscapeFilterPath escapes a path for use as a filtergraph option value:
// backslashes first, then colons and single quotes.
func EscapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `\\`)
	path = strings.ReplaceAll(path, ":", `\:`)
	path = strings.ReplaceAll(path, "'", `\'`)
	return path
}

// ExtractAudio writes a mono 16 kHz PCM WAV of source's audio to dest.
func (s *Service) ExtractAudio(ctx context.Context, source, dest string, onProgress func(Progress)) error {
	err := s.run(ctx, ExtractArgs(source, dest), onProgress)
	return stageexec.StageError(StageExtract, Tool, err)
}

// BurnSubtitles renders subtitlePath onto video and writes output.
func (s *Service) BurnSubtitles(ctx context.Context, video, subtitlePath, output string, onProgress func(Progress)) error {
	err := s.run(ctx, BurnArgs(video, subtitlePath, output), onProgress)
	return stageexec.StageError(StageRender, Tool, err)
}

func (s *Service) run(ctx context.Context, args []string, onProgress func(Progress)) error {
	var total float64
	return s.exec.Run(ctx, stageexec.Command{Binary: s.binary, Args: args}, func(line stageexec.Line) {
		if d, ok := ParseDurationHeader(line.Text); ok && total == 0 {
			total = d
			return
		}
		if onProgress == nil {
			return
		}
		if seconds, ok := ParseProgressTime(line.Text); ok {
			onProgress(Progress{Seconds: seconds, Total: total})
		}
	})
}
