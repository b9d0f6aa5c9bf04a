package caption

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"merlin/internal/fileutil"
)

// ErrEmptyTranscript is returned when an operation needs at least one word.
var ErrEmptyTranscript = errors.New("transcript has no words")

// Word is one recognized token with its timing in seconds from media start.
// Callers may edit Text; timings come from the recognizer.
type Word struct {
	Text       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Transcript is the ordered word list for one media file.
type Transcript struct {
	Source string `json:"source,omitempty"`
	Words  []Word `json:"words"`
}

// Duration reports the end of the last word.
func (t Transcript) Duration() float64 {
	if len(t.Words) == 0 {
		return 0
	}
	return t.Words[len(t.Words)-1].End
}

// Validate checks ordering and timing bounds. Gaps and overlaps between
// neighbours are allowed.
func (t Transcript) Validate() error {
	if len(t.Words) == 0 {
		return ErrEmptyTranscript
	}
	prev := math.Inf(-1)
	for i, w := range t.Words {
		switch {
		case math.IsNaN(w.Start) || math.IsNaN(w.End):
			return fmt.Errorf("word %d: timing is not a number", i)
		case w.Start < 0:
			return fmt.Errorf("word %d: negative start %.3f", i, w.Start)
		case w.End < w.Start:
			return fmt.Errorf("word %d: end %.3f before start %.3f", i, w.End, w.Start)
		case w.Start < prev:
			return fmt.Errorf("word %d: start %.3f before previous start %.3f", i, w.Start, prev)
		case w.Confidence < 0 || w.Confidence > 1:
			return fmt.Errorf("word %d: confidence %.3f outside 0..1", i, w.Confidence)
		}
		prev = w.Start
	}
	return nil
}

// SetText replaces the text of word i, leaving its timing untouched.
func (t *Transcript) SetText(i int, text string) error {
	if i < 0 || i >= len(t.Words) {
		return fmt.Errorf("word index %d out of range [0,%d)", i, len(t.Words))
	}
	t.Words[i].Text = strings.TrimSpace(text)
	return nil
}

// LoadTranscript reads a transcript JSON file written by WriteFile. A bare
// array of words is accepted too.
func LoadTranscript(path string) (Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	var t Transcript
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &t.Words)
	} else {
		err = json.Unmarshal(data, &t)
	}
	if err != nil {
		return Transcript{}, fmt.Errorf("decode transcript %s: %w", filepath.Base(path), err)
	}
	if err := t.Validate(); err != nil {
		return Transcript{}, fmt.Errorf("transcript %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// WriteFile stores the transcript as indented JSON, replacing path atomically.
func (t Transcript) WriteFile(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	data = append(data, '\n')
	return fileutil.WriteFileAtomic(path, data, 0o644)
}
