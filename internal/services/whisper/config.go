package whisper

// Config captures runtime settings for recognizer invocations.
type Config struct {
	// Model is the recognizer model name (e.g. "base", "small").
	Model string
	// Language is the spoken language code passed to --language.
	Language string
}

// Recognizer defaults.
const (
	DefaultModel    = "base"
	DefaultLanguage = "en"
	OutputFormat    = "json"
	Stage           = "recognize"
	Tool            = "whisper"
)
