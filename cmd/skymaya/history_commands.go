package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"skymaya/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded ck-cmd invocations",
	}

	historyCmd.AddCommand(newHistoryRunsCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryFailuresCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))

	return historyCmd
}

func newHistoryRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					formatTimestamp(run.StartedAt),
					strconv.Itoa(run.Total),
					strconv.Itoa(run.Failed),
					run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
				})
			}
			writeRows(cmd, []string{"Run", "Started", "Calls", "Failed", "Elapsed"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight})
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show every invocation of one run in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			records, err := store.ListRun(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("run %s not found", args[0])
			}
			return writeRecords(cmd, records, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryFailuresCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "failures",
		Short: "List recent failed invocations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			records, err := store.Failures(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 && !jsonOutput {
				fmt.Fprintln(cmd.OutOrStdout(), "No failures recorded")
				return nil
			}
			return writeRecords(cmd, records, jsonOutput)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete invocations older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			removed, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d invocation(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age threshold, e.g. 720h")
	return cmd
}

func writeRecords(cmd *cobra.Command, records []history.Record, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(cmd, records)
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		status := "ok"
		if !rec.OK {
			status = "failed"
		}
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			formatTimestamp(rec.StartedAt),
			titleLabel(rec.Operation),
			orDash(rec.Actor),
			titleLabel(status),
			strconv.Itoa(rec.ExitCode),
			firstLine(rec.Stderr),
		})
	}
	writeRows(cmd, []string{"ID", "Started", "Operation", "Actor", "Status", "Exit", "Stderr"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft})
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func firstLine(value string) string {
	value = strings.TrimSpace(value)
	if idx := strings.IndexByte(value, '\n'); idx >= 0 {
		value = value[:idx]
	}
	const maxLen = 80
	if len(value) > maxLen {
		value = value[:maxLen-3] + "..."
	}
	return value
}
