package caption_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"merlin/internal/caption"
)

func TestTranscriptValidate(t *testing.T) {
	valid := caption.Transcript{Words: sampleWords()}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if err := (caption.Transcript{}).Validate(); !errors.Is(err, caption.ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}

	tests := []struct {
		name  string
		words []caption.Word
	}{
		{"negative start", []caption.Word{{Text: "a", Start: -1, End: 0}}},
		{"end before start", []caption.Word{{Text: "a", Start: 2, End: 1}}},
		{"unordered", []caption.Word{{Text: "a", Start: 2, End: 3}, {Text: "b", Start: 1, End: 4}}},
		{"confidence", []caption.Word{{Text: "a", Start: 0, End: 1, Confidence: 1.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := (caption.Transcript{Words: tt.words}).Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestTranscriptSetText(t *testing.T) {
	tr := caption.Transcript{Words: sampleWords()}
	if err := tr.SetText(1, "  large "); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if tr.Words[1].Text != "large" || tr.Words[1].Start != 0.6 {
		t.Fatalf("unexpected word after edit: %+v", tr.Words[1])
	}
	if err := tr.SetText(9, "x"); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestTranscriptFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.words.json")
	tr := caption.Transcript{Source: "clip.mp4", Words: sampleWords()}
	if err := tr.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	loaded, err := caption.LoadTranscript(path)
	if err != nil {
		t.Fatalf("LoadTranscript: %v", err)
	}
	if loaded.Source != "clip.mp4" || len(loaded.Words) != len(tr.Words) || loaded.Words[3].Text != "world" {
		t.Fatalf("unexpected transcript: %+v", loaded)
	}
	if loaded.Duration() != 2.0 {
		t.Fatalf("Duration() = %v", loaded.Duration())
	}
}

func TestLoadTranscriptAcceptsBareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	payload := `[{"word":"hi","start":0,"end":0.5,"confidence":0.9},{"word":"there","start":0.6,"end":1,"confidence":1}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	tr, err := caption.LoadTranscript(path)
	if err != nil {
		t.Fatalf("LoadTranscript: %v", err)
	}
	if len(tr.Words) != 2 || tr.Words[1].Text != "there" {
		t.Fatalf("unexpected words: %+v", tr.Words)
	}
}

func TestLoadTranscriptRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"words":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := caption.LoadTranscript(path); !errors.Is(err, caption.ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
}
