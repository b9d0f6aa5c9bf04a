package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"merlin/internal/caption"
	"merlin/internal/config"
	"merlin/internal/media/ffprobe"
)

// styleFlags collects caption appearance overrides. Only flags the user
// actually set replace the base style.
type styleFlags struct {
	template   string
	fontSize   int
	fontFamily string
	fontColor  string
	bgColor    string
	bgOpacity  int
	position   string
	auto       bool
}

func (f *styleFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.template, "template", "", "Start from a named style template (see `merlin styles list`)")
	flags.BoolVar(&f.auto, "auto", false, "Start from a style suggested for the video resolution")
	flags.IntVar(&f.fontSize, "font-size", 0, "Caption font size")
	flags.StringVar(&f.fontFamily, "font-family", "", "Caption font family")
	flags.StringVar(&f.fontColor, "font-color", "", "Caption text colour (#rrggbb)")
	flags.StringVar(&f.bgColor, "bg-color", "", "Caption box colour (#rrggbb)")
	flags.IntVar(&f.bgOpacity, "bg-opacity", 0, "Caption box opacity percent (0-100)")
	flags.StringVar(&f.position, "position", "", "Caption position: top, middle or bottom")
	cmd.MarkFlagsMutuallyExclusive("template", "auto")
}

// resolve builds the style for one render. The base is the configured style,
// a template, or a suggestion for the probed video size.
func (f *styleFlags) resolve(ctx context.Context, cmd *cobra.Command, cfg *config.Config, video string) (caption.Style, error) {
	style := cfg.CaptionStyle()
	flags := cmd.Flags()

	switch {
	case flags.Changed("template"):
		preset, ok := caption.Template(f.template)
		if !ok {
			return caption.Style{}, fmt.Errorf("unknown style template %q (available: %s)", f.template, templateNames())
		}
		style = preset.Style
	case f.auto:
		dims, err := ffprobe.ProbeDimensions(ctx, cfg.Tools.FFprobe, video)
		if err != nil {
			return caption.Style{}, fmt.Errorf("suggest style: %w", err)
		}
		style = caption.Suggest(dims.Width, dims.Height)
	}

	if flags.Changed("font-size") {
		style.FontSize = f.fontSize
	}
	if flags.Changed("font-family") {
		style.FontFamily = f.fontFamily
	}
	if flags.Changed("font-color") {
		style.FontColor = f.fontColor
	}
	if flags.Changed("bg-color") {
		style.BgColor = f.bgColor
	}
	if flags.Changed("bg-opacity") {
		style.BgOpacity = f.bgOpacity
	}
	if flags.Changed("position") {
		pos, err := caption.ParsePosition(f.position)
		if err != nil {
			return caption.Style{}, err
		}
		style.Position = pos
	}

	style = style.WithDefaults()
	if err := style.Validate(); err != nil {
		return caption.Style{}, fmt.Errorf("caption style: %w", err)
	}
	return style, nil
}

func templateNames() string {
	presets := caption.Templates()
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
