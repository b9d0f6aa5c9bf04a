package config

import (
	"errors"
	"fmt"

	"merlin/internal/caption"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateStyle(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if c.Whisper.SpeedFactor <= 0 {
		return errors.New("whisper.speed_factor must be positive")
	}
	if c.Whisper.TickIntervalMS < 50 {
		return errors.New("whisper.tick_interval_ms must be at least 50")
	}
	return nil
}

func (c *Config) validateStyle() error {
	if c.Style.Template != "" {
		if _, ok := caption.Template(c.Style.Template); !ok {
			return fmt.Errorf("style.template: unknown template %q", c.Style.Template)
		}
	}
	if err := c.CaptionStyle().Validate(); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	return nil
}

// CaptionStyle resolves the configured default caption style: the named
// template (or the built-in default), then any explicitly configured field.
func (c *Config) CaptionStyle() caption.Style {
	style := caption.DefaultStyle()
	if tmpl, ok := caption.Template(c.Style.Template); ok {
		style = tmpl.Style
	}
	if c.Style.FontSize != 0 {
		style.FontSize = c.Style.FontSize
	}
	if c.Style.FontFamily != "" {
		style.FontFamily = c.Style.FontFamily
	}
	if c.Style.FontColor != "" {
		style.FontColor = c.Style.FontColor
	}
	if c.Style.BgColor != "" {
		style.BgColor = c.Style.BgColor
	}
	if c.Style.BgOpacity != nil {
		style.BgOpacity = *c.Style.BgOpacity
	}
	if c.Style.Position != "" {
		style.Position = caption.Position(c.Style.Position)
	}
	return style
}
