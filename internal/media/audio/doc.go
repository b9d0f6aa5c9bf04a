// Package audio inspects the mono 16 kHz WAV files produced by the extraction
// stage. The recognizer's progress estimate is driven by the audio duration
// read here.
package audio
