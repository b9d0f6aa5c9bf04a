package config

import (
	"fmt"
	"os"
	"strings"

	"merlin/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeWhisper()
	c.normalizeRender()
	c.normalizeStyle()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		if value, ok := os.LookupEnv("MERLIN_WORK_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.WorkDir = value
		} else {
			c.Paths.WorkDir = defaultWorkDir
		}
	}
	var err error
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = toolOrEnv(c.Tools.FFmpeg, "MERLIN_FFMPEG", defaultFFmpegBinary)
	c.Tools.FFprobe = toolOrEnv(c.Tools.FFprobe, "MERLIN_FFPROBE", defaultFFprobeBinary)
	c.Tools.Whisper = toolOrEnv(c.Tools.Whisper, "MERLIN_WHISPER", defaultWhisperBinary)
}

func toolOrEnv(value, envKey, fallback string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	if env, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(env) != "" {
		return strings.TrimSpace(env)
	}
	return fallback
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Model = strings.TrimSpace(c.Whisper.Model)
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	c.Whisper.Language = language.ToISO2(c.Whisper.Language)
	if c.Whisper.Language == "" {
		c.Whisper.Language = defaultWhisperLanguage
	}
	if c.Whisper.SpeedFactor == 0 {
		c.Whisper.SpeedFactor = defaultSpeedFactor
	}
	if c.Whisper.TickIntervalMS == 0 {
		c.Whisper.TickIntervalMS = defaultTickIntervalMS
	}
}

func (c *Config) normalizeRender() {
	c.Render.OutputSuffix = strings.TrimSpace(c.Render.OutputSuffix)
	c.Render.OutputExtension = strings.TrimSpace(c.Render.OutputExtension)
	if c.Render.OutputExtension == "" {
		c.Render.OutputExtension = defaultOutputExtension
	}
	if !strings.HasPrefix(c.Render.OutputExtension, ".") {
		c.Render.OutputExtension = "." + c.Render.OutputExtension
	}
	if c.Render.FallbackWidth <= 0 || c.Render.FallbackHeight <= 0 {
		c.Render.FallbackWidth = defaultFallbackWidth
		c.Render.FallbackHeight = defaultFallbackHeight
	}
}

func (c *Config) normalizeStyle() {
	c.Style.Template = strings.ToLower(strings.TrimSpace(c.Style.Template))
	c.Style.FontFamily = strings.TrimSpace(c.Style.FontFamily)
	c.Style.FontColor = strings.TrimSpace(c.Style.FontColor)
	c.Style.BgColor = strings.TrimSpace(c.Style.BgColor)
	c.Style.Position = strings.ToLower(strings.TrimSpace(c.Style.Position))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
