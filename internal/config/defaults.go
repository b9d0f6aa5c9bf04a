package config

const (
	defaultConfigPath      = "~/.config/merlin/config.toml"
	defaultWorkDir         = "~/.cache/merlin/work"
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultWhisperBinary   = "whisper"
	defaultWhisperModel    = "base"
	defaultWhisperLanguage = "en"
	defaultSpeedFactor     = 0.5
	defaultTickIntervalMS  = 500
	defaultOutputSuffix    = "_captioned"
	defaultOutputExtension = ".mp4"
	defaultFallbackWidth   = 1920
	defaultFallbackHeight  = 1080
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults. Work dir and
// tool paths stay empty so normalize can apply environment fallbacks.
func Default() Config {
	return Config{
		Whisper: Whisper{
			Model:          defaultWhisperModel,
			Language:       defaultWhisperLanguage,
			SpeedFactor:    defaultSpeedFactor,
			TickIntervalMS: defaultTickIntervalMS,
		},
		Render: Render{
			OutputSuffix:    defaultOutputSuffix,
			OutputExtension: defaultOutputExtension,
			FallbackWidth:   defaultFallbackWidth,
			FallbackHeight:  defaultFallbackHeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
