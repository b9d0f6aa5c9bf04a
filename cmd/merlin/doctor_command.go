package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"merlin/internal/deps"
	"merlin/internal/preflight"
)

type doctorReport struct {
	Tools  []deps.Status      `json:"tools"`
	Checks []preflight.Result `json:"checks"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := doctorReport{
				Tools: deps.CheckBinaries(deps.PipelineRequirements(cfg.Tools.FFmpeg, cfg.Tools.FFprobe, cfg.Tools.Whisper)),
			}
			missing := deps.Missing(report.Tools)
			if len(missing) == 0 {
				report.Checks = preflight.RunAll(cmd.Context(), cfg)
			} else {
				report.Checks = []preflight.Result{preflight.CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir)}
			}

			if asJSON {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printDoctorReport(cmd, report)
			}

			var problems []string
			for _, s := range missing {
				problems = append(problems, s.Name)
			}
			for _, r := range preflight.Failed(report.Checks) {
				problems = append(problems, r.Name)
			}
			if len(problems) > 0 {
				return fmt.Errorf("doctor found problems: %s", strings.Join(problems, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func printDoctorReport(cmd *cobra.Command, report doctorReport) {
	out := cmd.OutOrStdout()

	toolRows := make([][]string, 0, len(report.Tools))
	for _, s := range report.Tools {
		location := s.Path
		if !s.Available {
			location = s.Detail
		}
		toolRows = append(toolRows, []string{s.Name, s.Command, yesNo(s.Available), yesNo(!s.Optional), location})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Tool", "Command", "Found", "Required", "Path"},
		toolRows,
		nil,
	))

	checkRows := make([][]string, 0, len(report.Checks))
	for _, r := range report.Checks {
		status := "ok"
		if !r.Passed {
			status = "FAIL"
		}
		checkRows = append(checkRows, []string{r.Name, status, r.Detail})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Check", "Status", "Detail"},
		checkRows,
		nil,
	))
}
