// Package progress turns stage activity into a single monotonic 0-100
// percentage per job.
//
// Stages with measurable output (ffmpeg time stamps) report through
// Measured. Stages without one (speech recognition) run a simulated ticker
// that walks toward a ceiling over an estimated duration. Either way the
// emitted value never decreases, and Complete always ends at 100.
package progress
