// Package workflow runs caption jobs end to end.
//
// A Controller executes two kinds of job. Transcription extracts the audio
// track with ffmpeg, runs the speech recognizer and flattens its output into
// a caption.Transcript. Rendering writes the styled subtitle document for a
// transcript and burns it into a copy of the video.
//
// Every job moves through the same states:
//
//	Idle -> Stage1Running -> Stage2Running -> ParsingOutput -> CleaningUp -> Succeeded
//	                                                                      -> Failed
//	                                                                      -> Cancelled
//
// Render jobs skip ParsingOutput. Any running state may jump to CleaningUp
// on failure or cancellation; temporary files are removed on every path.
//
// Jobs on the same target are serialized across processes with a lock file
// under <work_dir>/locks. A second job on a busy target fails fast with
// ErrJobActive. Cancelling the context kills the running tool and the job
// ends with ErrCancelled.
package workflow
