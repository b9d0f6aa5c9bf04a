package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"merlin/internal/caption"
	"merlin/internal/config"
	"merlin/internal/subtitles"
)

type previewWord struct {
	Index  int     `json:"index"`
	Text   string  `json:"word"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Active bool    `json:"active"`
}

type previewResult struct {
	At      float64       `json:"at"`
	Active  int           `json:"active_index"`
	Words   []previewWord `json:"words"`
	ASSText string        `json:"ass_text"`
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var atFlag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "preview <transcript>",
		Short: "Show the caption window at a point in time",
		Long: "Resolve which word is spoken at --at and print the five-word window " +
			"the renderer would show, with the event text as written to the caption file.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve transcript path: %w", err)
			}
			at, err := parseInstant(atFlag)
			if err != nil {
				return err
			}
			transcript, err := caption.LoadTranscript(path)
			if err != nil {
				return err
			}
			normalized, err := caption.Normalize(transcript.Words)
			if err != nil {
				return err
			}
			loc, err := caption.Locate(normalized, at)
			if err != nil {
				return err
			}

			result := previewResult{
				At:      at,
				Active:  loc.ActiveIndex,
				ASSText: subtitles.WindowText(normalized, loc.ActiveIndex),
			}
			for i, w := range loc.Words {
				result.Words = append(result.Words, previewWord{
					Index:  w.Index,
					Text:   w.Text,
					Start:  w.Start,
					End:    w.End,
					Active: loc.IsActive(i),
				})
			}
			if asJSON {
				return writeJSON(cmd, result)
			}

			rows := make([][]string, 0, len(result.Words))
			for _, w := range result.Words {
				marker := ""
				if w.Active {
					marker = "▶"
				}
				rows = append(rows, []string{
					marker,
					strconv.Itoa(w.Index),
					w.Text,
					caption.ToSubtitleTime(w.Start),
					caption.ToSubtitleTime(w.End),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "At %s\n", caption.ToSubtitleTime(at))
			fmt.Fprintln(out, renderTable(
				[]string{"", "#", "Word", "Start", "End"},
				rows,
				[]columnAlignment{alignCenter, alignRight, alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "Text: %s\n", result.ASSText)
			return nil
		},
	}

	cmd.Flags().StringVar(&atFlag, "at", "0", "Instant to preview, in seconds or H:MM:SS.CC")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the window as JSON")
	return cmd
}

// parseInstant accepts plain seconds or a subtitle timestamp.
func parseInstant(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if strings.Contains(value, ":") {
		return caption.ParseSubtitleTime(value)
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("--at %q: want non-negative seconds or H:MM:SS.CC", value)
	}
	return seconds, nil
}
