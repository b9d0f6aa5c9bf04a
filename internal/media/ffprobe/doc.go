// Package ffprobe reads the two facts the caption pipeline needs from a media
// file: the first video stream's pixel dimensions and the container duration.
//
// Primary entry points:
//   - ProbeDimensions: width and height of the first video stream
//   - ProbeDuration: container duration in seconds
//
// Both return errors marked with services.ErrProbeFailed; callers decide
// whether to fall back or give up.
package ffprobe
