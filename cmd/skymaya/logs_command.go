package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"skymaya/internal/logging"
	"skymaya/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var converter bool

	cmd := &cobra.Command{
		Use:   "logs [invocation-id]",
		Short: "Print the skymaya run log or a recorded ck-cmd invocation log",
		Long: "Without arguments prints the tail of the skymaya run log. With an invocation ID " +
			"from `skymaya history` prints the ck-cmd log that invocation wrote. --converter " +
			"prints the fixed ck-cmd log target.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveLogPath(cmd.Context(), ctx, args, converter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			chunk, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			for _, line := range chunk.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			offset := chunk.Offset
			for {
				next, err := logs.Follow(cmd.Context(), path, offset, time.Second)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
				for _, line := range next.Lines {
					fmt.Fprintln(out, line)
				}
				offset = next.Offset
			}
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().BoolVar(&converter, "converter", false, "Print converter.log_file instead of the run log")
	return cmd
}

func resolveLogPath(goCtx context.Context, ctx *commandContext, args []string, converter bool) (string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		if converter {
			return cfg.Converter.LogFile, nil
		}
		return filepath.Join(cfg.Paths.LogDir, logging.RunLogName), nil
	}
	if converter {
		return "", fmt.Errorf("--converter cannot be combined with an invocation ID")
	}

	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("invalid invocation ID %q", args[0])
	}
	store, err := ctx.historyStore()
	if err != nil {
		return "", err
	}
	rec, ok, err := store.Get(goCtx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("invocation %d not found", id)
	}
	if rec.LogPath == "" {
		return "", fmt.Errorf("invocation %d has no log file", id)
	}
	return rec.LogPath, nil
}
