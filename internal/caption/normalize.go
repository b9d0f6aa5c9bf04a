package caption

// NormalizedWord is a word whose End has been stretched (or shrunk) to the
// next word's Start so the sequence has no gaps and no overlaps.
type NormalizedWord struct {
	Word
	// Index is the position in the source transcript.
	Index int
	// RawEnd keeps the recognizer's end time for diagnostics.
	RawEnd float64
}

// Normalize returns a gap-free copy of words. For every word except the last,
// End becomes the following word's Start; the last keeps its own End. The
// input slice is not modified.
func Normalize(words []Word) ([]NormalizedWord, error) {
	if len(words) == 0 {
		return nil, ErrEmptyTranscript
	}
	out := make([]NormalizedWord, len(words))
	for i, w := range words {
		nw := NormalizedWord{Word: w, Index: i, RawEnd: w.End}
		if i < len(words)-1 {
			nw.End = words[i+1].Start
		}
		out[i] = nw
	}
	return out, nil
}

// Gap reports the silence (positive) or overlap (negative) between the raw
// end of this word and the start of the next one.
func (w NormalizedWord) Gap() float64 {
	return w.End - w.RawEnd
}
