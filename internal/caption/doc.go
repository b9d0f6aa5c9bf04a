// Package caption holds the pure building blocks of the caption engine.
//
// It defines the word-level transcript model, normalizes raw recognizer
// timings into a gap-free sequence, selects the five-word context window for
// any playback instant, and converts times and colours into the encodings the
// subtitle renderer expects. Style describes caption appearance, including the
// named templates and size-based suggestions offered to callers.
//
// Nothing here touches the filesystem or spawns processes; every function is
// safe to call concurrently.
package caption
