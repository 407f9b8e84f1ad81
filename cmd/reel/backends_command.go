package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"reel/internal/backend"
	"reel/internal/preflight"
)

func newBackendsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "Probe conversion backends and environment checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.fileLogger()
			if err != nil {
				return err
			}

			detection := backend.NewDetector(cfg, logger).Detect(cmd.Context())

			rows := make([]table.Row, 0, len(detection.Statuses))
			for _, status := range detection.Statuses {
				note := ""
				if status.Kind == detection.Selected {
					note = "selected"
				}
				rows = append(rows, table.Row{status.Kind.Label(), yesNo(status.Available), status.Detail, note})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(table.Row{"Backend", "Available", "Detail", ""}, rows))

			checks := preflight.RunAll(cfg)
			if len(checks) == 0 {
				return nil
			}
			checkRows := make([]table.Row, 0, len(checks))
			for _, check := range checks {
				checkRows = append(checkRows, table.Row{check.Name, yesNo(check.Passed), check.Detail})
			}
			fmt.Fprintln(out, renderTable(table.Row{"Check", "OK", "Detail"}, checkRows))
			return nil
		},
	}
}
