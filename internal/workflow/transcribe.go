package workflow

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"merlin/internal/caption"
	"merlin/internal/logging"
	"merlin/internal/media/audio"
	"merlin/internal/progress"
	"merlin/internal/services/ffmpeg"
	"merlin/internal/services/whisper"
	"merlin/internal/textutil"
)

// Transcription progress bands.
const (
	extractCeiling   = 25
	recognizeCeiling = 95
	parsingProgress  = 97
)

// TranscribeProgress is one transcription progress event. Progress is 0-100
// and never decreases within a job.
type TranscribeProgress struct {
	Progress int
	Message  string
}

// Transcribe extracts the audio of videoPath, runs the recognizer and returns
// the flattened word list. onProgress may be nil; it can be called from a
// background goroutine but never concurrently and never after Transcribe
// returns.
func (c *Controller) Transcribe(ctx context.Context, videoPath string, onProgress func(TranscribeProgress)) (caption.Transcript, error) {
	source, err := resolveInput(videoPath)
	if err != nil {
		return caption.Transcript{}, err
	}
	run, ctx, err := c.begin(ctx, KindTranscribe, source, source)
	if err != nil {
		return caption.Transcript{}, err
	}

	est := progress.New(func(u progress.Update) {
		run.logProgress(run.baseLogger, u.Progress, u.Message)
		if onProgress != nil {
			onProgress(TranscribeProgress{Progress: u.Progress, Message: u.Message})
		}
	})
	transcript, stageErr := c.transcribe(ctx, run, est, source)
	est.Stop()
	if err := run.finish(ctx, stageErr); err != nil {
		return caption.Transcript{}, err
	}
	est.Complete("Transcription complete")
	return transcript, nil
}

func (c *Controller) transcribe(ctx context.Context, run *jobRun, est *progress.Estimator, source string) (caption.Transcript, error) {
	base := textutil.SanitizeToken(strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)))
	wavPath := filepath.Join(run.workDir, base+".wav")
	jsonPath := whisper.OutputPath(wavPath, run.workDir)
	run.track(wavPath)
	run.track(jsonPath)

	est.Report(0, "Extracting audio")
	sourceDuration := c.probeDuration(ctx, run.logger, source)
	run.logger.Info("extracting audio",
		logging.String("source", source),
		logging.Float64("duration_seconds", sourceDuration),
	)
	err := c.ffmpeg.ExtractAudio(ctx, source, wavPath, func(p ffmpeg.Progress) {
		total := p.Total
		if total <= 0 {
			total = sourceDuration
		}
		est.Measured(0, extractCeiling, p.Seconds, total, "Extracting audio")
	})
	if err != nil {
		return caption.Transcript{}, err
	}
	audioDuration := c.audioDuration(run, wavPath, sourceDuration)
	est.Report(extractCeiling, "Audio extracted")

	if err := run.enter(StateStage2Running); err != nil {
		return caption.Transcript{}, err
	}
	estimated := time.Duration(audioDuration * c.cfg.Whisper.SpeedFactor * float64(time.Second))
	run.logger.Info("transcribing audio",
		logging.String("model", c.whisper.Model()),
		logging.Duration("estimated", estimated),
	)
	_, err = c.whisper.Transcribe(ctx, wavPath, run.workDir, func(line string) {
		if whisper.IsStageStartMarker(line) {
			est.StartSimulated(extractCeiling, recognizeCeiling, estimated, c.cfg.TickInterval(), "Transcribing")
		}
		if end, ok := whisper.ParseSegmentEnd(line); ok && audioDuration > 0 {
			est.Measured(extractCeiling, recognizeCeiling-extractCeiling, end, audioDuration, "Transcribing")
		}
	})
	est.Stop()
	if err != nil {
		return caption.Transcript{}, err
	}

	if err := run.enter(StateParsingOutput); err != nil {
		return caption.Transcript{}, err
	}
	est.Report(parsingProgress, "Reading transcript")
	words, err := whisper.LoadWords(jsonPath)
	if err != nil {
		return caption.Transcript{}, err
	}
	transcript := caption.Transcript{Source: source, Words: words}
	logTranscriptSummary(ctx, run.logger, transcript)
	return transcript, nil
}

// audioDuration prefers the extracted WAV header over the container probe.
func (c *Controller) audioDuration(run *jobRun, wavPath string, fallback float64) float64 {
	info, err := audio.Inspect(wavPath)
	if err != nil {
		run.logger.Debug("wav inspection failed; using probed duration", logging.Error(err))
		return fallback
	}
	if !info.IsSpeechFormat() {
		run.logger.Warn("extracted audio is not 16 kHz mono",
			logging.Int("sample_rate", info.SampleRate),
			logging.Int("channels", info.Channels),
			logging.String(logging.FieldEventType, "audio_format_unexpected"),
			logging.String(logging.FieldErrorHint, "check the ffmpeg build"),
			logging.String(logging.FieldImpact, "recognition may be slower or less accurate"),
		)
	}
	if info.Duration <= 0 {
		return fallback
	}
	return info.Seconds()
}
