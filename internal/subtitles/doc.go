// Package subtitles builds the styled Advanced SubStation Alpha document that
// ffmpeg burns into the video.
//
// Each word in the transcript becomes one dialogue event covering the word's
// normalized time range. The event shows a five-word window around the word
// with every neighbour dimmed, so the highlight moves word by word as the
// video plays.
package subtitles
