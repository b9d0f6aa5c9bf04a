package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"merlin/internal/config"
	"merlin/internal/logging"
	"merlin/internal/media/ffprobe"
	"merlin/internal/services"
	"merlin/internal/services/ffmpeg"
	"merlin/internal/services/whisper"
	"merlin/internal/stageexec"
	"merlin/internal/subtitles"
)

// Controller runs transcription and render jobs. It holds no per-job state,
// so one controller may serve concurrent jobs on different targets.
type Controller struct {
	cfg      *config.Config
	logger   *slog.Logger
	ffmpeg   *ffmpeg.Service
	whisper  *whisper.Service
	now      func() time.Time
	observer func(Job)
}

// Option configures optional Controller behavior.
type Option func(*controllerOptions)

type controllerOptions struct {
	exec     stageexec.Executor
	now      func() time.Time
	observer func(Job)
}

// WithExecutor replaces the subprocess runner used for ffmpeg and the
// recognizer.
func WithExecutor(exec stageexec.Executor) Option {
	return func(o *controllerOptions) { o.exec = exec }
}

// WithClock overrides the time source used for job timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *controllerOptions) { o.now = now }
}

// WithObserver registers fn to receive a snapshot of the job after every
// state transition. fn runs on the job's goroutine.
func WithObserver(fn func(Job)) Option {
	return func(o *controllerOptions) { o.observer = fn }
}

// New constructs a controller from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Controller, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "init", "configuration required", nil)
	}
	options := controllerOptions{exec: stageexec.CommandExecutor{}, now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}
	if options.exec == nil {
		options.exec = stageexec.CommandExecutor{}
	}
	if options.now == nil {
		options.now = time.Now
	}

	ffmpegSvc, err := ffmpeg.New(cfg.Tools.FFmpeg, ffmpeg.WithExecutor(options.exec))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "init", "", err)
	}
	whisperSvc, err := whisper.NewService(cfg.Tools.Whisper, whisper.Config{
		Model:    cfg.Whisper.Model,
		Language: cfg.Whisper.Language,
	}, whisper.WithExecutor(options.exec))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "init", "", err)
	}

	return &Controller{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		ffmpeg:   ffmpegSvc,
		whisper:  whisperSvc,
		now:      options.now,
		observer: options.observer,
	}, nil
}

// DefaultOutputPath places the captioned copy beside the source:
// <dir>/<base><suffix><ext>.
func DefaultOutputPath(video, suffix, ext string) string {
	if ext == "" {
		ext = ".mp4"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	base := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
	return filepath.Join(filepath.Dir(video), base+suffix+ext)
}

// resolveInput returns the absolute path of an existing regular file.
func resolveInput(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", services.Wrap(services.ErrValidation, "workflow", "input", "video path required", nil)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "workflow", "input", "resolve path", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "workflow", "input", abs, err)
		}
		return "", services.Wrap(services.ErrValidation, "workflow", "input", "stat", err)
	}
	if info.IsDir() {
		return "", services.Wrap(services.ErrValidation, "workflow", "input", fmt.Sprintf("%s is a directory", abs), nil)
	}
	return abs, nil
}

// probeDuration returns the container duration, or 0 when the probe fails.
// Duration only feeds progress, so failures are logged at debug level.
func (c *Controller) probeDuration(ctx context.Context, logger *slog.Logger, path string) float64 {
	seconds, err := ffprobe.ProbeDuration(ctx, c.cfg.Tools.FFprobe, path)
	if err != nil {
		logger.Debug("duration probe failed", logging.Error(err))
		return 0
	}
	return seconds
}

// probeResolution returns the video's pixel size, or the configured fallback.
func (c *Controller) probeResolution(ctx context.Context, logger *slog.Logger, path string) subtitles.Resolution {
	fallback := subtitles.Resolution{Width: c.cfg.Render.FallbackWidth, Height: c.cfg.Render.FallbackHeight}.OrDefault()
	dims, err := ffprobe.ProbeDimensions(ctx, c.cfg.Tools.FFprobe, path)
	if err == nil && !dims.Valid() {
		err = fmt.Errorf("%w: invalid dimensions %s", services.ErrProbeFailed, dims)
	}
	if err != nil {
		logging.WarnWithContext(logger, "video probe failed; using fallback resolution", "probe_fallback",
			logging.Error(err),
			logging.String("fallback", fmt.Sprintf("%dx%d", fallback.Width, fallback.Height)),
			logging.String(logging.FieldErrorHint, "check that ffprobe is installed and the file has a video stream"),
			logging.String(logging.FieldImpact, "caption size and placement assume the fallback canvas"),
		)
		return fallback
	}
	return subtitles.Resolution{Width: dims.Width, Height: dims.Height}
}
