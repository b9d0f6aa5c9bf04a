package workflow

import (
	"context"
	"log/slog"

	"merlin/internal/caption"
	"merlin/internal/logging"
)

const lowConfidence = 0.5

// logTranscriptSummary logs word count and duration, and at debug level the
// per-word timeline with the gap normalization will close.
func logTranscriptSummary(ctx context.Context, logger *slog.Logger, transcript caption.Transcript) {
	low := 0
	for _, w := range transcript.Words {
		if w.Confidence < lowConfidence {
			low++
		}
	}
	logger.Info("transcript parsed",
		logging.Int("words", len(transcript.Words)),
		logging.String("duration", caption.FormatClock(transcript.Duration())),
		logging.Int("low_confidence_words", low),
	)

	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	normalized, err := caption.Normalize(transcript.Words)
	if err != nil {
		return
	}
	for _, w := range normalized {
		logger.Debug("word timeline",
			logging.Int("index", w.Index),
			logging.String("word", w.Text),
			logging.String("start", caption.ToSubtitleTime(w.Start)),
			logging.String("end", caption.ToSubtitleTime(w.End)),
			logging.Float64("gap", w.Gap()),
			logging.Float64("confidence", w.Confidence),
		)
	}
}
