package audio

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// ErrNotWAV is returned for files without a valid RIFF/WAVE header.
var ErrNotWAV = errors.New("not a wav file")

// Info summarizes a PCM WAV file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Seconds returns the duration as floating point seconds.
func (i Info) Seconds() float64 {
	return i.Duration.Seconds()
}

// IsSpeechFormat reports whether the file already matches the recognizer's
// preferred input: 16 kHz mono.
func (i Info) IsSpeechFormat() bool {
	return i.SampleRate == 16000 && i.Channels == 1
}

// Inspect reads the WAV header at path.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("%s: %w", path, ErrNotWAV)
	}
	duration, err := dec.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("wav duration: %w", err)
	}
	return Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Duration:   duration,
	}, nil
}
