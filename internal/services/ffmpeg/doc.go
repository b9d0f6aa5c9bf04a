// Package ffmpeg wraps the two transcoder invocations of the caption pipeline:
// extracting a mono 16 kHz WAV for the recognizer, and burning an ASS
// subtitle track into a video while copying its audio.
//
// Both run through a stageexec.Executor with "-progress pipe:2" so progress
// arrives as newline-terminated key=value lines; ParseProgressTime also
// understands the classic "time=HH:MM:SS.xx" status line for builds that
// ignore -progress.
package ffmpeg
