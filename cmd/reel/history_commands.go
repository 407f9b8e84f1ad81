package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"reel/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent conversions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No conversions recorded yet.")
				return nil
			}

			rows := make([]table.Row, 0, len(records))
			for _, rec := range records {
				rows = append(rows, table.Row{
					rec.ID,
					humanize.Time(rec.FinishedAt),
					filepath.Base(rec.SourcePath),
					rec.Format,
					rec.Backend,
					string(rec.Status),
					recordSize(rec),
					rec.Duration().Round(time.Second),
				})
			}
			fmt.Fprintln(out, renderTable(
				table.Row{"ID", "Finished", "Source", "Format", "Backend", "Status", "Size", "Took"},
				rows, 1, 7))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum number of rows to show")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history record(s)\n", count)
			return nil
		},
	}
}

// recordSize prefers the produced file size and falls back to the source
// size for failed runs that never wrote output.
func recordSize(rec *history.Record) string {
	if rec.OutputSize > 0 {
		return humanize.Bytes(uint64(rec.OutputSize))
	}
	if rec.SourceSize > 0 {
		return humanize.Bytes(uint64(rec.SourceSize))
	}
	return ""
}
