package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains working and log directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Tools names the external executables. Bare names are resolved through PATH.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	Whisper string `toml:"whisper"`
}

// Whisper contains configuration for the speech recognition stage.
type Whisper struct {
	Model    string `toml:"model"`
	Language string `toml:"language"`
	// SpeedFactor estimates recognition wall time as a fraction of audio
	// duration. Only drives the simulated progress curve.
	SpeedFactor    float64 `toml:"speed_factor"`
	TickIntervalMS int     `toml:"tick_interval_ms"`
}

// Render contains configuration for the burn-in stage.
type Render struct {
	OutputSuffix    string `toml:"output_suffix"`
	OutputExtension string `toml:"output_extension"`
	FallbackWidth   int    `toml:"fallback_width"`
	FallbackHeight  int    `toml:"fallback_height"`
}

// Style holds the default caption appearance. Template, when set, is applied
// first and any explicit field overrides it. Unset fields fall back to the
// built-in caption defaults. BgOpacity is a pointer because 0 is a valid value.
type Style struct {
	Template   string `toml:"template"`
	FontSize   int    `toml:"font_size"`
	FontFamily string `toml:"font_family"`
	FontColor  string `toml:"font_color"`
	BgColor    string `toml:"bg_color"`
	BgOpacity  *int   `toml:"bg_opacity"`
	Position   string `toml:"position"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Merlin.
//
// Configuration sections by subsystem:
//   - Paths: temp namespace root and log directory
//   - Tools: ffmpeg, ffprobe and whisper executables
//   - Whisper: recognizer model, language, progress estimate tuning
//   - Render: output naming and probe fallback resolution
//   - Style: default caption appearance
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Tools   Tools   `toml:"tools"`
	Whisper Whisper `toml:"whisper"`
	Render  Render  `toml:"render"`
	Style   Style   `toml:"style"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("merlin.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work and lock directories used by pipeline jobs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.LockDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockDir is where per-target job lock files live.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.WorkDir, "locks")
}

// TickInterval returns the simulated progress tick as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Whisper.TickIntervalMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
