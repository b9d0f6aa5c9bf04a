package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"merlin/internal/caption"
	"merlin/internal/config"
	"merlin/internal/workflow"
)

const transcriptSuffix = ".words.json"

type transcribeResult struct {
	Source     string  `json:"source"`
	Transcript string  `json:"transcript"`
	Words      int     `json:"words"`
	Duration   float64 `json:"duration_seconds"`
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var asJSON bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "transcribe <video>",
		Short: "Transcribe a video into a word-level transcript",
		Long: "Extract the audio track, run speech recognition and write the word list " +
			"as JSON beside the video (or to --output). Edit the word text in that file " +
			"before rendering if the recognizer got something wrong.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			video, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve video path: %w", err)
			}
			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = defaultTranscriptPath(video)
			} else if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve transcript path: %w", err)
			}

			controller, err := ctx.controller()
			if err != nil {
				return err
			}
			bar := newProgressReporter(cmd.ErrOrStderr(), "Transcribing", quiet || asJSON)
			transcript, err := controller.Transcribe(cmd.Context(), video, func(p workflow.TranscribeProgress) {
				bar.update(p.Progress, p.Message)
			})
			bar.finish()
			if err != nil {
				return err
			}
			if err := transcript.WriteFile(target); err != nil {
				return err
			}

			result := transcribeResult{
				Source:     transcript.Source,
				Transcript: target,
				Words:      len(transcript.Words),
				Duration:   transcript.Duration(),
			}
			if asJSON {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcribed %d words (%s) from %s\n", result.Words, caption.FormatClock(result.Duration), filepath.Base(video))
			fmt.Fprintf(out, "Transcript: %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Transcript destination (default <video>"+transcriptSuffix+")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide progress output")
	return cmd
}

func defaultTranscriptPath(video string) string {
	base := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
	return filepath.Join(filepath.Dir(video), base+transcriptSuffix)
}
