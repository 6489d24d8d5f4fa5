package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mediasweep/internal/inventory"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent search, import and export runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistoryForRead()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Command", "Status", "Started", "Duration", "Files", "Hits", "Root"},
				runRows(runs),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show a run and the files it recorded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistoryForRead()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %s not found", args[0])
			}
			files, err := store.RunFiles(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Command", statusInfo, run.Command, colorize))
			fmt.Fprintln(out, renderStatusLine("Status", runStatusKind(run.Status), string(run.Status), colorize))
			fmt.Fprintln(out, renderStatusLine("Started", statusInfo, formatRunTime(run.StartedAt), colorize))
			if !run.FinishedAt.IsZero() {
				fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, formatDuration(run.Duration()), colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Root", statusInfo, run.Root, colorize))
			if run.Output != "" {
				fmt.Fprintln(out, renderStatusLine("Output", statusInfo, run.Output, colorize))
			}
			if run.Detail != "" {
				fmt.Fprintln(out, renderStatusLine("Detail", statusError, run.Detail, colorize))
			}

			if len(files) == 0 {
				fmt.Fprintln(out, "No files recorded")
				return nil
			}
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				rows = append(rows, []string{f.Path, f.Verdict, f.Reason})
			}
			fmt.Fprintln(out, renderTable([]string{"Path", "Verdict", "Reason"}, rows, nil))
			return nil
		},
	}
}

func runRows(runs []inventory.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := "-"
		if !run.FinishedAt.IsZero() {
			duration = formatDuration(run.Duration())
		}
		rows = append(rows, []string{
			shortRunID(run.ID),
			run.Command,
			string(run.Status),
			formatRunTime(run.StartedAt),
			duration,
			humanize.Comma(int64(run.Files)),
			humanize.Comma(int64(run.Candidates)),
			run.Root,
		})
	}
	return rows
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatRunTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(historyTimeLayout)
}

func runStatusKind(status inventory.Status) statusKind {
	switch status {
	case inventory.StatusSucceeded:
		return statusOK
	case inventory.StatusFailed:
		return statusError
	default:
		return statusWarn
	}
}
