package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skymaya/internal/assets"
	"skymaya/internal/pathspec"
	"skymaya/internal/workflow"
)

type contextView struct {
	Start string `json:"start"`
	Root  string `json:"root"`
	Actor string `json:"actor,omitempty"`
	DLC   int    `json:"dlc"`
}

func newContextCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show the data root, actor, and DLC inferred from the start path",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.newSession()
			if err != nil {
				return err
			}
			defer session.Close()

			project, err := session.Project()
			if err != nil {
				return err
			}
			view := contextView{Start: session.StartPath(), Root: project.Root, Actor: project.Actor, DLC: project.DLC}
			if jsonOutput {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Start: %s\n", view.Start)
			fmt.Fprintf(out, "Root:  %s\n", view.Root)
			fmt.Fprintf(out, "Actor: %s\n", orDash(view.Actor))
			fmt.Fprintf(out, "Group: %s\n", groupLabel(view.DLC))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// locatorFlags scopes a locator lookup; unset flags keep the inferred values.
type locatorFlags struct {
	actor string
	dlc   int
}

func (f *locatorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.actor, "actor", "", "Actor folder name (default: inferred from the start path)")
	cmd.Flags().IntVar(&f.dlc, "dlc", -1, "DLC group, 0 for vanilla (default: inferred from the start path)")
}

func (f *locatorFlags) locator(session *workflow.Session) (assets.Locator, error) {
	locator, err := session.Locator()
	if err != nil {
		return assets.Locator{}, err
	}
	if actor := strings.TrimSpace(f.actor); actor != "" {
		locator = locator.WithActor(actor)
	}
	if f.dlc >= 0 {
		if f.dlc > 9 {
			return assets.Locator{}, fmt.Errorf("--dlc %d out of range 0..9", f.dlc)
		}
		locator.DLC = f.dlc
	}
	return locator, nil
}

func newLocateCommand(ctx *commandContext) *cobra.Command {
	var scope locatorFlags
	var legacy bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "locate [asset]",
		Short: "Resolve actor asset paths (all catalog entries, or one by name)",
		Long: "Resolve the asset catalog for an actor. Names: actors, actor, textures, animations,\n" +
			"character assets, behaviors, tags, animation data, bound anims, cache file,\n" +
			"bound anim file, skeleton.hkx, skeleton.nif.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.newSession()
			if err != nil {
				return err
			}
			defer session.Close()

			locator, err := scope.locator(session)
			if err != nil {
				return err
			}
			if !legacy {
				legacy = session.Config().Conversion.LegacySkeleton
			}
			entries, err := locator.Describe(legacy)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				entry, err := findEntry(entries, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, entry)
				}
				fmt.Fprintln(cmd.OutOrStdout(), entry.Path)
				return nil
			}

			if jsonOutput {
				return writeJSON(cmd, entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{titleLabel(entry.Name), entry.Pattern, orDash(entry.Path)})
			}
			writeRows(cmd, []string{"Asset", "Pattern", "Path"}, rows, nil)
			return nil
		},
	}
	scope.register(cmd)
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Use skeleton_le.hkx instead of skeleton.hkx")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func findEntry(entries []assets.Entry, name string) (assets.Entry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, entry := range entries {
		if entry.Name != name {
			continue
		}
		if entry.Path == "" {
			kind := pathspec.ErrDirectoryNotFound
			if strings.Contains(entry.Name, "file") || strings.Contains(entry.Name, ".") {
				kind = pathspec.ErrFileNotFound
			}
			return entry, &pathspec.NotFoundError{Kind: kind, Path: entry.Pattern}
		}
		return entry, nil
	}
	return assets.Entry{}, fmt.Errorf("unknown asset %q", name)
}

type actorView struct {
	DLC         int    `json:"dlc"`
	Actor       string `json:"actor"`
	Dir         string `json:"dir"`
	SkeletonHkx string `json:"skeleton_hkx,omitempty"`
	Animations  string `json:"animations,omitempty"`
}

func newActorsCommand(ctx *commandContext) *cobra.Command {
	var dlcs []int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "actors",
		Short: "List the actors of each DLC group in the data root",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.newSession()
			if err != nil {
				return err
			}
			defer session.Close()

			project, err := session.Project()
			if err != nil {
				return err
			}
			if len(dlcs) == 0 {
				dlcs = session.Config().Conversion.DLCs
			}
			legacy := session.Config().Conversion.LegacySkeleton

			var views []actorView
			for _, dlc := range dlcs {
				group := assets.New(project.Root, "", dlc)
				names, err := group.ListActors()
				if errors.Is(err, pathspec.ErrDirectoryNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				for _, name := range names {
					if dlc == 0 && strings.HasPrefix(strings.ToLower(name), "dlc") {
						continue
					}
					l := group.WithActor(name)
					view := actorView{DLC: dlc, Actor: name}
					if view.Dir, err = l.ActorDir(); err != nil {
						return err
					}
					if view.SkeletonHkx, err = l.SkeletonHkx(legacy); err != nil {
						return err
					}
					if view.Animations, err = l.AnimationDir(); err != nil {
						return err
					}
					views = append(views, view)
				}
			}

			if jsonOutput {
				return writeJSON(cmd, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No actors found")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{groupLabel(v.DLC), v.Actor, yesNo(v.SkeletonHkx != ""), yesNo(v.Animations != ""), v.Dir})
			}
			writeRows(cmd, []string{"Group", "Actor", "Skeleton", "Animations", "Path"}, rows, nil)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&dlcs, "dlc", nil, "DLC groups to list, 0 for vanilla (default: conversion.dlcs)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func groupLabel(dlc int) string {
	if dlc == 0 {
		return titleLabel("vanilla")
	}
	return assets.DLCFolder(dlc)
}
