package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"merlin/internal/caption"
	"merlin/internal/fileutil"
	"merlin/internal/logging"
	"merlin/internal/progress"
	"merlin/internal/services"
	"merlin/internal/services/ffmpeg"
	"merlin/internal/subtitles"
	"merlin/internal/textutil"
)

// Render progress bands.
const (
	probeCeiling  = 2
	renderCeiling = 99
)

// RenderRequest describes one burn-in. A zero Style means the configured
// default style; an empty OutputPath means DefaultOutputPath.
type RenderRequest struct {
	VideoPath  string
	Transcript caption.Transcript
	Style      caption.Style
	OutputPath string
}

// RenderProgress is one render progress event. Seconds is the position
// ffmpeg has reached in the video.
type RenderProgress struct {
	Seconds float64
	Percent int
	Message string
}

// RenderResult describes the finished output.
type RenderResult struct {
	OutputPath string
	SizeBytes  int64
	// Duration is the wall time the job took.
	Duration   time.Duration
	Resolution subtitles.Resolution
	Events     int
}

// Render writes the caption document for req.Transcript and burns it into a
// copy of req.VideoPath. On failure no output file is left behind.
func (c *Controller) Render(ctx context.Context, req RenderRequest, onProgress func(RenderProgress)) (RenderResult, error) {
	video, err := resolveInput(req.VideoPath)
	if err != nil {
		return RenderResult{}, err
	}
	if err := req.Transcript.Validate(); err != nil {
		return RenderResult{}, services.Wrap(services.ErrValidation, "workflow", "render", "transcript", err)
	}
	style := req.Style
	if style == (caption.Style{}) {
		style = c.cfg.CaptionStyle()
	}
	style = style.WithDefaults()
	if err := style.Validate(); err != nil {
		return RenderResult{}, services.Wrap(services.ErrValidation, "workflow", "render", "caption style", err)
	}
	output, err := c.resolveOutput(video, req.OutputPath)
	if err != nil {
		return RenderResult{}, err
	}

	run, ctx, err := c.begin(ctx, KindRender, output, video)
	if err != nil {
		return RenderResult{}, err
	}

	var (
		mu      sync.Mutex
		seconds float64
	)
	est := progress.New(func(u progress.Update) {
		run.logProgress(run.baseLogger, u.Progress, u.Message)
		if onProgress != nil {
			mu.Lock()
			at := seconds
			mu.Unlock()
			onProgress(RenderProgress{Seconds: at, Percent: u.Progress, Message: u.Message})
		}
	})
	setSeconds := func(v float64) {
		mu.Lock()
		seconds = max(seconds, v)
		mu.Unlock()
	}

	result, stageErr := c.render(ctx, run, est, setSeconds, video, output, req.Transcript, style)
	if err := run.finish(ctx, stageErr); err != nil {
		return RenderResult{}, err
	}
	result.Duration = run.job.Elapsed()
	est.Complete("Render complete")
	run.baseLogger.Info("captioned video written",
		logging.String("output", result.OutputPath),
		logging.Int64("size_bytes", result.SizeBytes),
		logging.Duration("elapsed", result.Duration),
	)
	return result, nil
}

func (c *Controller) resolveOutput(video, requested string) (string, error) {
	output := strings.TrimSpace(requested)
	if output == "" {
		output = DefaultOutputPath(video, c.cfg.Render.OutputSuffix, c.cfg.Render.OutputExtension)
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "workflow", "output", "resolve path", err)
	}
	if abs == video {
		return "", services.Wrap(services.ErrValidation, "workflow", "output", "output path must differ from the source video", nil)
	}
	return abs, nil
}

func (c *Controller) render(ctx context.Context, run *jobRun, est *progress.Estimator, setSeconds func(float64), video, output string, transcript caption.Transcript, style caption.Style) (RenderResult, error) {
	est.Report(0, "Probing video")
	res := c.probeResolution(ctx, run.logger, video)
	total := c.probeDuration(ctx, run.logger, video)
	est.Report(probeCeiling, "Video probed")
	if err := ctx.Err(); err != nil {
		return RenderResult{}, err
	}

	if err := run.enter(StateStage2Running); err != nil {
		return RenderResult{}, err
	}
	doc, err := subtitles.Generate(transcript.Words, style, res)
	if err != nil {
		return RenderResult{}, err
	}
	base := textutil.SanitizeToken(strings.TrimSuffix(filepath.Base(video), filepath.Ext(video)))
	assPath := filepath.Join(run.workDir, base+"_captions.ass")
	run.track(assPath)
	if err := doc.WriteFile(assPath); err != nil {
		return RenderResult{}, err
	}
	run.logger.Info("rendering captions",
		logging.Int("events", len(doc.Events)),
		logging.String("resolution", fmt.Sprintf("%dx%d", res.Width, res.Height)),
		logging.String("font", fmt.Sprintf("%s %d", style.FontFamily, style.FontSize)),
		logging.String("position", string(style.Position)),
		logging.String("output", output),
	)

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return RenderResult{}, fmt.Errorf("create output directory: %w", err)
	}
	err = c.ffmpeg.BurnSubtitles(ctx, video, assPath, output, func(p ffmpeg.Progress) {
		duration := total
		if duration <= 0 {
			duration = p.Total
		}
		setSeconds(p.Seconds)
		est.Measured(probeCeiling, renderCeiling-probeCeiling, p.Seconds, duration, "Rendering")
	})
	if err != nil {
		if rmErr := fileutil.RemoveIfExists(output); rmErr != nil {
			logging.WarnWithContext(run.logger, "partial output cleanup failed", "cleanup_failed",
				logging.String("path", output),
				logging.Error(rmErr),
				logging.String(logging.FieldImpact, "incomplete video left at output path"),
			)
		}
		return RenderResult{}, err
	}

	size, err := fileutil.Size(output)
	if err != nil {
		return RenderResult{}, services.Wrap(services.ErrNotFound, "workflow", "render", "output missing after burn-in", err)
	}
	setSeconds(total)
	return RenderResult{
		OutputPath: output,
		SizeBytes:  size,
		Resolution: res,
		Events:     len(doc.Events),
	}, nil
}
