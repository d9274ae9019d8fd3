package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the spoken-commentary history",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent commentary, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := ctx.historyLog()
			if err != nil {
				return err
			}
			records := hist.Recent(limit)
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "History is empty")
				return nil
			}

			const stampLayout = "2006-01-02 15:04"
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				project := rec.Project
				if project == "" {
					project = "-"
				}
				rows = append(rows, []string{
					rec.Timestamp.Local().Format(stampLayout),
					rec.EventKind,
					project,
					rec.Text,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Event", "Project", "Said"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Erase the commentary history",
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := ctx.historyLog()
			if err != nil {
				return err
			}
			if err := hist.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
}
