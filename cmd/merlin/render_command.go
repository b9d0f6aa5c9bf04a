package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"merlin/internal/caption"
	"merlin/internal/config"
	"merlin/internal/workflow"
)

type renderResult struct {
	Output    string        `json:"output"`
	SizeBytes int64         `json:"size_bytes"`
	Size      string        `json:"size"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Events    int           `json:"events"`
	Elapsed   string        `json:"elapsed"`
	Style     caption.Style `json:"style"`
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var transcriptPath string
	var outputPath string
	var asJSON bool
	var quiet bool
	var style styleFlags

	cmd := &cobra.Command{
		Use:   "render <video>",
		Short: "Burn word-highlighted captions into a copy of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			video, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve video path: %w", err)
			}
			source := strings.TrimSpace(transcriptPath)
			if source == "" {
				source = defaultTranscriptPath(video)
			} else if source, err = config.ExpandPath(source); err != nil {
				return fmt.Errorf("resolve transcript path: %w", err)
			}
			transcript, err := caption.LoadTranscript(source)
			if err != nil {
				return err
			}
			resolved, err := style.resolve(cmd.Context(), cmd, cfg, video)
			if err != nil {
				return err
			}
			output := strings.TrimSpace(outputPath)
			if output != "" {
				if output, err = config.ExpandPath(output); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}

			controller, err := ctx.controller()
			if err != nil {
				return err
			}
			bar := newProgressReporter(cmd.ErrOrStderr(), "Rendering", quiet || asJSON)
			res, err := controller.Render(cmd.Context(), workflow.RenderRequest{
				VideoPath:  video,
				Transcript: transcript,
				Style:      resolved,
				OutputPath: output,
			}, func(p workflow.RenderProgress) {
				bar.update(p.Percent, p.Message)
			})
			bar.finish()
			if err != nil {
				return err
			}

			result := renderResult{
				Output:    res.OutputPath,
				SizeBytes: res.SizeBytes,
				Size:      humanize.Bytes(uint64(max(res.SizeBytes, 0))),
				Width:     res.Resolution.Width,
				Height:    res.Resolution.Height,
				Events:    res.Events,
				Elapsed:   res.Duration.Round(100 * time.Millisecond).String(),
				Style:     resolved,
			}
			if asJSON {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s (%s, %dx%d, %d caption events) in %s\n",
				result.Output, result.Size, result.Width, result.Height, result.Events, result.Elapsed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "Transcript JSON (default <video>"+transcriptSuffix+")")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output video path (default <video>_captioned.mp4)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide progress output")
	style.register(cmd)
	return cmd
}
