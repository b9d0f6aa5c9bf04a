// Package whisper runs the speech recognizer CLI and reads its word-level
// JSON output.
//
// This package handles:
//   - Recognizer invocation with word timestamps enabled
//   - Flattening segment word lists into caption.Word values
//   - Recognizing console lines that signal the recognizer is making headway
//
// The recognizer prints no reliable percentage, so callers drive their own
// estimate from IsStageStartMarker and ParseSegmentEnd.
package whisper
