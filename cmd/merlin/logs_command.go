package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"merlin/internal/logging"
	"merlin/internal/logs"
)

const followWait = 2 * time.Second

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var jobID string
	var level string
	var follow bool
	var raw bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the JSON log file written to paths.log_dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.LogDir == "" {
				return errors.New("paths.log_dir is not set; file logging is disabled")
			}
			minLevel, err := logging.ParseLevel(level)
			if err != nil {
				return err
			}
			filter := logs.Filter{JobID: jobID, MinLevel: minLevel}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			out := cmd.OutOrStdout()

			result, err := logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: -1, Limit: lines})
			if err != nil {
				return err
			}
			printLogLines(out, result.Lines, filter, raw)
			for follow {
				result, err = logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: result.Offset, Follow: true, Wait: followWait})
				if err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					return err
				}
				printLogLines(out, result.Lines, filter, raw)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to read from the end of the file")
	cmd.Flags().StringVar(&jobID, "job", "", "Only show records for this job id (prefix match)")
	cmd.Flags().StringVar(&level, "level", "debug", "Minimum level to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new records")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print JSON lines unchanged")
	return cmd
}

func printLogLines(out io.Writer, lines []string, filter logs.Filter, raw bool) {
	for _, line := range lines {
		entry, err := logs.ParseEntry(line)
		if err != nil {
			if raw {
				fmt.Fprintln(out, line)
			}
			continue
		}
		if !filter.Match(entry) {
			continue
		}
		if raw {
			fmt.Fprintln(out, line)
			continue
		}
		fmt.Fprintln(out, entry.Format())
	}
}
