package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"skymaya/internal/config"
	"skymaya/internal/workflow"
)

func newConvertDataCommand(ctx *commandContext) *cobra.Command {
	var continueOnError bool
	var legacy bool
	var dlcs []int
	var skipPreflight bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "convert-data",
		Short: "Export the rig and animations of every actor in the data root",
		Long: "Export every actor's rig into its character assets folder and its animations\n" +
			"into its tags folder, for the vanilla group and each DLC group present.\n" +
			"The batch halts on the first failure unless --continue-on-error is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.newSession()
			if err != nil {
				return err
			}
			defer session.Close()

			if err := session.Lock(); err != nil {
				return err
			}
			root, err := session.Root()
			if err != nil {
				return err
			}
			if !skipPreflight {
				if err := session.Preflight(root); err != nil {
					return err
				}
			}

			opts := session.ConvertOptionsFromConfig()
			if cmd.Flags().Changed("continue-on-error") {
				opts.ContinueOnError = continueOnError
			}
			if legacy {
				opts.LegacySkeleton = true
			}
			if len(dlcs) > 0 {
				opts.DLCs = dlcs
			}
			if !jsonOutput {
				opts.Progress = progressPrinter(cmd.ErrOrStderr())
			}

			summary, runErr := workflow.ConvertDataRoot(cmd.Context(), session, opts)
			if jsonOutput {
				if err := writeJSON(cmd, summaryView(summary, session)); err != nil {
					return err
				}
				return runErr
			}
			printSummary(cmd.OutOrStdout(), summary, session)
			return runErr
		},
	}
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Keep converting the remaining actors after a failure")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Use skeleton_le.hkx instead of skeleton.hkx")
	cmd.Flags().IntSliceVar(&dlcs, "dlc", nil, "DLC groups to convert, 0 for vanilla (default: conversion.dlcs)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Do not check directories and the ck-cmd binary first")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the summary as JSON")
	return cmd
}

func progressPrinter(w io.Writer) func(workflow.ProgressEvent) {
	return func(ev workflow.ProgressEvent) {
		status := "ok"
		if ev.Err != nil {
			status = "failed"
		}
		fmt.Fprintf(w, "[%s %d/%d] %s %s: %s\n", groupLabel(ev.DLC), ev.Done, ev.Total, ev.Actor, ev.Step, status)
	}
}

type actorSummaryView struct {
	DLC   int    `json:"dlc"`
	Actor string `json:"actor"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type batchView struct {
	RunID         string             `json:"run_id"`
	Root          string             `json:"root"`
	Groups        []int              `json:"groups"`
	SkippedGroups []int              `json:"skipped_groups,omitempty"`
	Invocations   int                `json:"invocations"`
	Failures      int                `json:"failures"`
	Actors        []actorSummaryView `json:"actors"`
}

func summaryView(summary workflow.Summary, session *workflow.Session) batchView {
	stats := session.Stats()
	view := batchView{
		RunID:         session.RunID(),
		Root:          summary.Root,
		Groups:        summary.Groups,
		SkippedGroups: summary.SkippedGroups,
		Invocations:   stats.Invocations,
		Failures:      stats.Failures,
	}
	for _, outcome := range summary.Actors {
		v := actorSummaryView{DLC: outcome.DLC, Actor: outcome.Actor, OK: outcome.OK()}
		if outcome.Err != nil {
			v.Error = outcome.Err.Error()
		}
		view.Actors = append(view.Actors, v)
	}
	return view
}

func printSummary(w io.Writer, summary workflow.Summary, session *workflow.Session) {
	stats := session.Stats()
	failed := summary.Failed()
	fmt.Fprintf(w, "Run %s: %d actors, %d failed, %d ck-cmd calls\n",
		session.RunID(), len(summary.Actors), len(failed), stats.Invocations)
	for _, outcome := range failed {
		fmt.Fprintf(w, "  %s %s: %v\n", groupLabel(outcome.DLC), outcome.Actor, outcome.Err)
	}
}

func newExtractActorCommand(ctx *commandContext) *cobra.Command {
	var actor string
	var destination string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "extract-actor",
		Short: "Copy one actor's meshes, textures, and animation data into a new data root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if destination == "" {
				return errors.New("--dest is required")
			}
			session, err := ctx.newSession()
			if err != nil {
				return err
			}
			defer session.Close()

			dest, err := config.ExpandPath(destination)
			if err != nil {
				return err
			}
			res, err := workflow.ExtractActor(cmd.Context(), session.Logger(), workflow.ExtractRequest{
				Source:      session.StartPath(),
				Actor:       actor,
				Destination: dest,
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Extracted %s (%s) to %s\n", res.Actor, groupLabel(res.DLC), dest)
			fmt.Fprintf(out, "Files:      %d\n", res.Files)
			fmt.Fprintf(out, "Cache file: %s\n", orDash(res.CacheFile))
			fmt.Fprintf(out, "Bound anim: %s\n", orDash(res.BoundAnim))
			fmt.Fprintf(out, "Data sets:  %d\n", len(res.DataSetFiles))
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Actor folder name (default: inferred from the start path)")
	cmd.Flags().StringVar(&destination, "dest", "", "Destination data root")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
