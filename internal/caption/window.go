package caption

import "sort"

const (
	// WindowBefore and WindowAfter bound the context shown around the
	// active word.
	WindowBefore = 2
	WindowAfter  = 2
)

// Location is the result of resolving a playback instant against a
// normalized transcript.
type Location struct {
	// ActiveIndex is the word being spoken (or the nearest sensible word when
	// the instant falls outside all words).
	ActiveIndex int
	// Start and End are the half-open window bounds in the word slice.
	Start, End int
	Words      []NormalizedWord
}

// Active returns the active word.
func (l Location) Active() NormalizedWord {
	return l.Words[l.ActiveIndex-l.Start]
}

// IsActive reports whether window slot i (0-based within Words) is the active word.
func (l Location) IsActive(i int) bool {
	return l.Start+i == l.ActiveIndex
}

// WindowBounds returns the half-open range [start, end) of at most five
// words centred on index i in a sequence of n words, clipped at both ends.
func WindowBounds(n, i int) (int, int) {
	start := max(0, i-WindowBefore)
	end := min(n, i+WindowAfter+1)
	return start, end
}

// Locate finds the word active at time t and its context window.
//
// Resolution order: the first word whose closed range [Start, End] contains
// t, then the first word when t precedes everything, then the last word when
// t is past the end, and finally the latest word that ended before t.
func Locate(words []NormalizedWord, t float64) (Location, error) {
	n := len(words)
	if n == 0 {
		return Location{}, ErrEmptyTranscript
	}
	idx := activeIndex(words, t)
	start, end := WindowBounds(n, idx)
	return Location{ActiveIndex: idx, Start: start, End: end, Words: words[start:end]}, nil
}

func activeIndex(words []NormalizedWord, t float64) int {
	n := len(words)
	if t < words[0].Start {
		return 0
	}
	if t > words[n-1].End {
		return n - 1
	}

	// Lowest index whose closed range [Start, End] holds t, so a shared
	// boundary belongs to the word that ends there.
	idx := sort.Search(n, func(i int) bool { return words[i].End >= t })
	if idx < n && words[idx].Start <= t {
		return idx
	}

	best := 0
	for i, w := range words {
		if w.End < t {
			best = i
		}
	}
	return best
}
