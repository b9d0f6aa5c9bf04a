package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"merlin/internal/caption"
	"merlin/internal/config"
	"merlin/internal/media/ffprobe"
)

func newStylesCommand(ctx *commandContext) *cobra.Command {
	stylesCmd := &cobra.Command{
		Use:   "styles",
		Short: "Caption style templates and suggestions",
	}
	stylesCmd.AddCommand(newStylesListCommand())
	stylesCmd.AddCommand(newStylesSuggestCommand(ctx))
	return stylesCmd
}

func newStylesListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:         "list",
		Short:       "List built-in style templates",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := caption.Templates()
			if asJSON {
				return writeJSON(cmd, presets)
			}
			rows := make([][]string, 0, len(presets))
			for _, p := range presets {
				rows = append(rows, append([]string{p.Name}, append(styleCells(p.Style), p.Description)...))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Font", "Size", "Colour", "Box", "Opacity", "Position", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print templates as JSON")
	return cmd
}

func newStylesSuggestCommand(ctx *commandContext) *cobra.Command {
	var width, height int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "suggest [video]",
		Short: "Suggest a caption style for a video resolution",
		Long:  "Probe the video with ffprobe, or take --width and --height, and print the suggested style.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dims := ffprobe.Dimensions{Width: width, Height: height}
			if len(args) == 1 {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				video, err := config.ExpandPath(strings.TrimSpace(args[0]))
				if err != nil {
					return fmt.Errorf("resolve video path: %w", err)
				}
				if dims, err = ffprobe.ProbeDimensions(cmd.Context(), cfg.Tools.FFprobe, video); err != nil {
					return err
				}
			}
			if !dims.Valid() {
				return errors.New("provide a video or both --width and --height")
			}
			style := caption.Suggest(dims.Width, dims.Height)
			if asJSON {
				return writeJSON(cmd, struct {
					Width  int           `json:"width"`
					Height int           `json:"height"`
					Style  caption.Style `json:"style"`
				}{dims.Width, dims.Height, style})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Suggested style for %s\n", dims)
			fmt.Fprintln(out, renderTable(
				[]string{"Font", "Size", "Colour", "Box", "Opacity", "Position"},
				[][]string{styleCells(style)},
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Video width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Video height in pixels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the suggestion as JSON")
	return cmd
}

func styleCells(s caption.Style) []string {
	return []string{
		s.FontFamily,
		strconv.Itoa(s.FontSize),
		s.FontColor,
		s.BgColor,
		strconv.Itoa(s.BgOpacity) + "%",
		string(s.Position),
	}
}
