package deps

// PipelineRequirements lists the executables used by transcription and
// rendering. ffprobe is optional because rendering falls back to a default
// resolution when probing is unavailable.
func PipelineRequirements(ffmpeg, ffprobe, whisper string) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpeg, Description: "Audio extraction and caption burn-in"},
		{Name: "FFprobe", Command: ffprobe, Description: "Source resolution and duration probing", Optional: true},
		{Name: "Whisper", Command: whisper, Description: "Word-level speech recognition"},
	}
}
