package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	langpkg "merlin/internal/language"
	"merlin/internal/stageexec"
)

// Option configures the service.
type Option func(*Service)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec stageexec.Executor) Option {
	return func(s *Service) {
		if exec != nil {
			s.exec = exec
		}
	}
}

// Service provides recognizer transcription.
type Service struct {
	cfg    Config
	binary string
	exec   stageexec.Executor
}

// NewService creates a recognizer service with the given configuration.
func NewService(binary string, cfg Config, opts ...Option) (*Service, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("whisper binary required")
	}
	s := &Service{cfg: cfg, binary: binary, exec: stageexec.CommandExecutor{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// OutputPath is where the recognizer writes JSON for source inside outputDir.
func OutputPath(source, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(outputDir, base+"."+OutputFormat)
}

// Transcribe runs the recognizer on a WAV file and returns the JSON output
// path. Every console line is passed to onLine while the process runs.
func (s *Service) Transcribe(ctx context.Context, source, outputDir string, onLine func(string)) (string, error) {
	if source == "" {
		return "", errors.New("transcribe: source path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	cmd := stageexec.Command{Binary: s.binary, Args: s.buildArgs(source, outputDir)}
	err := s.exec.Run(ctx, cmd, func(line stageexec.Line) {
		if onLine != nil {
			onLine(line.Text)
		}
	})
	if err != nil {
		return "", stageexec.StageError(Stage, Tool, err)
	}
	return OutputPath(source, outputDir), nil
}

func (s *Service) buildArgs(source, outputDir string) []string {
	lang := langpkg.ToISO2(s.cfg.Language)
	if lang == "" {
		lang = DefaultLanguage
	}
	return []string{
		source,
		"--model", s.Model(),
		"--language", lang,
		"--output_format", OutputFormat,
		"--word_timestamps", "True",
		"--output_dir", outputDir,
	}
}
