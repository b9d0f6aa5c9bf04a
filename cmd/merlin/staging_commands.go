package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"merlin/internal/staging"
	"merlin/internal/workflow"
)

const defaultStaleAge = 24 * time.Hour

func newStagingCommand(ctx *commandContext) *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Inspect and clean job directories in the work dir",
	}

	stagingCmd.AddCommand(newStagingListCommand(ctx))
	stagingCmd.AddCommand(newStagingCleanCommand(ctx))

	return stagingCmd
}

func newStagingListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job directories left in the work dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dirs, err := staging.ListDirectories(cfg.Paths.WorkDir)
			if err != nil {
				return fmt.Errorf("list job directories: %w", err)
			}
			if asJSON {
				if dirs == nil {
					dirs = []staging.DirInfo{}
				}
				return writeJSON(cmd, dirs)
			}

			out := cmd.OutOrStdout()
			if len(dirs) == 0 {
				fmt.Fprintln(out, "No job directories found")
				return nil
			}
			var total int64
			rows := make([][]string, 0, len(dirs))
			for _, dir := range dirs {
				total += dir.Size
				rows = append(rows, []string{dir.Name, humanize.Time(dir.ModTime), humanize.Bytes(uint64(dir.Size))})
			}
			fmt.Fprintf(out, "Work dir: %s\n", cfg.Paths.WorkDir)
			fmt.Fprintln(out, renderTable(
				[]string{"Directory", "Modified", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "Total: %d directories, %s\n", len(dirs), humanize.Bytes(uint64(total)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print directories as JSON")
	return cmd
}

func newStagingCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration
	var cleanAll bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove job directories left by interrupted runs",
		Long: `Remove job directories older than --max-age from the work dir.

Finished jobs remove their own directory, so leftovers come from processes
that were killed mid-job. Use --all to remove every job directory; it is
refused while any job holds a lock.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			age := maxAge
			if cleanAll {
				held, err := workflow.HeldLocks(cfg.LockDir())
				if err != nil {
					return err
				}
				if len(held) > 0 {
					return fmt.Errorf("%w: %d job(s) running; retry without --all or when they finish", workflow.ErrJobActive, len(held))
				}
				age = 0
			} else if age <= 0 {
				return errors.New("--max-age must be positive")
			}

			result := staging.CleanStale(cmd.Context(), cfg.Paths.WorkDir, age, logger)
			if asJSON {
				errs := make([]string, 0, len(result.Errors))
				for _, e := range result.Errors {
					errs = append(errs, fmt.Sprintf("%s: %v", e.Path, e.Error))
				}
				return writeJSON(cmd, map[string]any{
					"removed": len(result.Removed),
					"errors":  errs,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d job directories\n", len(result.Removed))
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  failed: %s: %v\n", e.Path, e.Error)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d job directories could not be removed", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", defaultStaleAge, "Only remove directories older than this")
	cmd.Flags().BoolVar(&cleanAll, "all", false, "Remove every job directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
