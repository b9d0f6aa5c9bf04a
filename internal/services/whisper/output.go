package whisper

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"

	"merlin/internal/caption"
	"merlin/internal/services"
)

// Word is one token from the recognizer JSON. Probability is absent for
// some models, hence the pointer.
type Word struct {
	Word        string   `json:"word"`
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Probability *float64 `json:"probability"`
}

// Segment is a transcribed phrase with its word list.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

type payload struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

// LoadSegments loads segments from a recognizer JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &services.OutputParseError{Path: jsonPath, Reason: "output file missing", Err: err}
		}
		return nil, &services.OutputParseError{Path: jsonPath, Reason: "read output", Err: err}
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &services.OutputParseError{Path: jsonPath, Reason: "malformed json", Err: err}
	}
	return p.Segments, nil
}

// FlattenWords concatenates every segment's words in order. Text is trimmed,
// blank tokens are dropped, and a missing probability counts as 1.0.
func FlattenWords(segments []Segment) []caption.Word {
	var words []caption.Word
	for _, seg := range segments {
		for _, w := range seg.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" {
				continue
			}
			confidence := 1.0
			if w.Probability != nil {
				confidence = min(max(*w.Probability, 0), 1)
			}
			words = append(words, caption.Word{
				Text:       text,
				Start:      max(w.Start, 0),
				End:        max(w.End, w.Start, 0),
				Confidence: confidence,
			})
		}
	}
	return words
}

// LoadWords reads jsonPath and returns its flattened words. A file without
// any words, or with words out of time order, is an output parse failure.
func LoadWords(jsonPath string) ([]caption.Word, error) {
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return nil, err
	}
	words := FlattenWords(segments)
	if len(words) == 0 {
		return nil, &services.OutputParseError{Path: jsonPath, Reason: "no word timings in output", Err: caption.ErrEmptyTranscript}
	}
	if err := (caption.Transcript{Words: words}).Validate(); err != nil {
		return nil, &services.OutputParseError{Path: jsonPath, Reason: "invalid word timings", Err: err}
	}
	return words, nil
}
