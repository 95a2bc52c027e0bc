package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"skymaya/internal/assets"
	"skymaya/internal/ckcmd"
	"skymaya/internal/config"
	"skymaya/internal/logging"
	"skymaya/internal/workflow"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Run a single ck-cmd conversion",
		Long: "Run one ck-cmd conversion. Inputs left unset are looked up in the data root\n" +
			"for the actor inferred from --path (or --actor/--dlc).",
	}

	convertCmd.AddCommand(newExportAnimationCommand(ctx))
	convertCmd.AddCommand(newImportAnimationCommand(ctx))
	convertCmd.AddCommand(newExportRigCommand(ctx))
	convertCmd.AddCommand(newImportRigCommand(ctx))
	convertCmd.AddCommand(newImportSkinCommand(ctx))

	return convertCmd
}

// jobFlags are shared by every convert subcommand.
type jobFlags struct {
	scope      locatorFlags
	legacy     bool
	dryRun     bool
	jsonOutput bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	f.scope.register(cmd)
	cmd.Flags().BoolVar(&f.legacy, "legacy", false, "Use skeleton_le.hkx instead of skeleton.hkx")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Print the ck-cmd command without running it")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Output the result as JSON")
}

// jobInputs fills unset job inputs from the data root. The locator is only
// built when a lookup is actually needed, so fully specified jobs work
// outside a data root.
type jobInputs struct {
	session *workflow.Session
	flags   *jobFlags
	locator *assets.Locator
}

func (in *jobInputs) lookup() (assets.Locator, error) {
	if in.locator != nil {
		return *in.locator, nil
	}
	l, err := in.flags.scope.locator(in.session)
	if err != nil {
		return assets.Locator{}, err
	}
	in.locator = &l
	return l, nil
}

// path expands value, or resolves it with find when empty. A required input
// that cannot be found names the flag to pass.
func (in *jobInputs) path(value, flag string, required bool, find func(assets.Locator) (string, error)) (string, error) {
	if value = strings.TrimSpace(value); value != "" {
		return config.ExpandPath(value)
	}
	if find == nil {
		if required {
			return "", fmt.Errorf("--%s is required", flag)
		}
		return "", nil
	}
	l, err := in.lookup()
	if err != nil {
		if required {
			return "", fmt.Errorf("--%s not set and lookup failed: %w", flag, err)
		}
		return "", nil
	}
	found, err := find(l)
	if err != nil {
		return "", err
	}
	if found == "" && required {
		return "", fmt.Errorf("--%s not set and nothing found in %s", flag, l.Root)
	}
	return found, nil
}

func (in *jobInputs) legacy() bool {
	return in.flags.legacy || in.session.Config().Conversion.LegacySkeleton
}

func (in *jobInputs) actor() string {
	if in.locator != nil {
		return in.locator.Actor
	}
	return strings.TrimSpace(in.flags.scope.actor)
}

type resultView struct {
	Operation string `json:"operation"`
	Command   string `json:"command"`
	WorkDir   string `json:"work_dir"`
	DryRun    bool   `json:"dry_run,omitempty"`
	ExitCode  int    `json:"exit_code"`
	OK        bool   `json:"ok"`
	Stdout    string `json:"stdout,omitempty"`
	Stderr    string `json:"stderr,omitempty"`
	LogPath   string `json:"log_path,omitempty"`
}

// runJob builds the job with build and either prints or executes it.
func runJob(cmd *cobra.Command, ctx *commandContext, flags *jobFlags, build func(*jobInputs) (ckcmd.Job, error)) error {
	session, err := ctx.newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	inputs := &jobInputs{session: session, flags: flags}
	job, err := build(inputs)
	if err != nil {
		return err
	}

	view := resultView{
		Operation: string(job.Operation),
		Command:   session.Runner().Command(job),
		WorkDir:   job.WorkDir,
	}
	if flags.dryRun {
		view.DryRun = true
		view.OK = true
		if flags.jsonOutput {
			return writeJSON(cmd, view)
		}
		fmt.Fprintln(cmd.OutOrStdout(), view.Command)
		return nil
	}

	if job.WorkDir != "" {
		if err := os.MkdirAll(job.WorkDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	runCtx := cmd.Context()
	if actor := inputs.actor(); actor != "" {
		runCtx = logging.WithActor(runCtx, actor)
	}
	if inputs.locator != nil {
		runCtx = logging.WithDLC(runCtx, inputs.locator.DLC)
	}
	res, runErr := session.Execute(runCtx, job)
	view.ExitCode = res.ExitCode
	view.OK = res.OK
	view.Stdout = res.Stdout
	view.Stderr = res.Stderr
	view.LogPath = res.LogPath

	if flags.jsonOutput {
		if err := writeJSON(cmd, view); err != nil {
			return err
		}
		return runErr
	}
	if runErr != nil {
		return runErr
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s finished in %s\n", titleLabel(view.Operation), res.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Output: %s\n", view.WorkDir)
	fmt.Fprintf(out, "Log:    %s\n", view.LogPath)
	return nil
}

func newExportAnimationCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var skeleton, animations, out string

	cmd := &cobra.Command{
		Use:   "exportanimation",
		Short: "Convert hkx animations to fbx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, ctx, &flags, func(in *jobInputs) (ckcmd.Job, error) {
				skeletonHkx, err := in.path(skeleton, "skeleton", true, func(l assets.Locator) (string, error) { return l.SkeletonHkx(in.legacy()) })
				if err != nil {
					return ckcmd.Job{}, err
				}
				animHkx, err := in.path(animations, "animations", true, assets.Locator.AnimationDir)
				if err != nil {
					return ckcmd.Job{}, err
				}
				outDir, err := in.path(out, "out", true, assets.Locator.TagDir)
				if err != nil {
					return ckcmd.Job{}, err
				}
				return ckcmd.ExportAnimation(skeletonHkx, animHkx, outDir), nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&skeleton, "skeleton", "", "Skeleton hkx (default: actor's character assets)")
	cmd.Flags().StringVar(&animations, "animations", "", "Animation hkx file or directory (default: actor's animations folder)")
	cmd.Flags().StringVar(&out, "out", "", "Output directory (default: actor's tags folder)")
	return cmd
}

func newImportAnimationCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var skeleton, animations, cache, behaviors, out string

	cmd := &cobra.Command{
		Use:   "importanimation",
		Short: "Convert fbx animations to hkx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, ctx, &flags, func(in *jobInputs) (ckcmd.Job, error) {
				skeletonHkx, err := in.path(skeleton, "skeleton", true, func(l assets.Locator) (string, error) { return l.SkeletonHkx(in.legacy()) })
				if err != nil {
					return ckcmd.Job{}, err
				}
				animFbx, err := in.path(animations, "animations", true, nil)
				if err != nil {
					return ckcmd.Job{}, err
				}
				cacheTxt, err := in.path(cache, "cache", false, func(l assets.Locator) (string, error) { return l.CacheFile(l.Actor) })
				if err != nil {
					return ckcmd.Job{}, err
				}
				behaviorDir, err := in.path(behaviors, "behaviors", false, assets.Locator.BehaviorDir)
				if err != nil {
					return ckcmd.Job{}, err
				}
				outDir, err := in.path(out, "out", true, assets.Locator.AnimationDir)
				if err != nil {
					return ckcmd.Job{}, err
				}
				return ckcmd.ImportAnimation(skeletonHkx, animFbx, outDir, cacheTxt, behaviorDir), nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&skeleton, "skeleton", "", "Skeleton hkx (default: actor's character assets)")
	cmd.Flags().StringVar(&animations, "animations", "", "Animation fbx file or directory")
	cmd.Flags().StringVar(&cache, "cache", "", "Animation cache txt (default: actor's cache file)")
	cmd.Flags().StringVar(&behaviors, "behaviors", "", "Behavior directory (default: actor's behaviors folder)")
	cmd.Flags().StringVar(&out, "out", "", "Output directory (default: actor's animations folder)")
	return cmd
}

func newExportRigCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var skeleton, skeletonNif, out, animations, mesh, behaviors, cache string

	cmd := &cobra.Command{
		Use:   "exportrig",
		Short: "Convert a skeleton hkx/nif pair to fbx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, ctx, &flags, func(in *jobInputs) (ckcmd.Job, error) {
				var rig ckcmd.RigExport
				var err error
				if rig.SkeletonHkx, err = in.path(skeleton, "skeleton", true, func(l assets.Locator) (string, error) { return l.SkeletonHkx(in.legacy()) }); err != nil {
					return ckcmd.Job{}, err
				}
				if rig.SkeletonNif, err = in.path(skeletonNif, "skeleton-nif", true, assets.Locator.SkeletonNif); err != nil {
					return ckcmd.Job{}, err
				}
				if rig.OutputDir, err = in.path(out, "out", true, assets.Locator.CharacterAssetDir); err != nil {
					return ckcmd.Job{}, err
				}
				if rig.AnimationHkx, err = in.path(animations, "animations", false, assets.Locator.AnimationDir); err != nil {
					return ckcmd.Job{}, err
				}
				if rig.MeshNif, err = in.path(mesh, "mesh", false, nil); err != nil {
					return ckcmd.Job{}, err
				}
				if rig.BehaviorDir, err = in.path(behaviors, "behaviors", false, assets.Locator.BehaviorDir); err != nil {
					return ckcmd.Job{}, err
				}
				if rig.CacheTxt, err = in.path(cache, "cache", false, func(l assets.Locator) (string, error) { return l.CacheFile(l.Actor) }); err != nil {
					return ckcmd.Job{}, err
				}
				return ckcmd.ExportRig(rig), nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&skeleton, "skeleton", "", "Skeleton hkx (default: actor's character assets)")
	cmd.Flags().StringVar(&skeletonNif, "skeleton-nif", "", "Skeleton nif (default: actor's character assets)")
	cmd.Flags().StringVar(&out, "out", "", "Output directory (default: actor's character assets folder)")
	cmd.Flags().StringVar(&animations, "animations", "", "Animation hkx file or directory (default: actor's animations folder)")
	cmd.Flags().StringVar(&mesh, "mesh", "", "Mesh nif to bind to the rig")
	cmd.Flags().StringVar(&behaviors, "behaviors", "", "Behavior directory (default: actor's behaviors folder)")
	cmd.Flags().StringVar(&cache, "cache", "", "Animation cache txt (default: actor's cache file)")
	return cmd
}

func newImportRigCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var fbx, out string

	cmd := &cobra.Command{
		Use:   "importrig",
		Short: "Convert an fbx skeleton to hkx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, ctx, &flags, func(in *jobInputs) (ckcmd.Job, error) {
				skeletonFbx, err := in.path(fbx, "fbx", true, nil)
				if err != nil {
					return ckcmd.Job{}, err
				}
				outDir, err := in.path(out, "out", true, assets.Locator.CharacterAssetDir)
				if err != nil {
					return ckcmd.Job{}, err
				}
				return ckcmd.ImportRig(skeletonFbx, outDir), nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&fbx, "fbx", "", "Skeleton fbx")
	cmd.Flags().StringVar(&out, "out", "", "Output directory (default: actor's character assets folder)")
	return cmd
}

func newImportSkinCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var fbx, out string

	cmd := &cobra.Command{
		Use:   "importskin",
		Short: "Convert a skinned fbx mesh to nif",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, ctx, &flags, func(in *jobInputs) (ckcmd.Job, error) {
				skinFbx, err := in.path(fbx, "fbx", true, nil)
				if err != nil {
					return ckcmd.Job{}, err
				}
				outDir, err := in.path(out, "out", true, assets.Locator.ActorDir)
				if err != nil {
					return ckcmd.Job{}, err
				}
				return ckcmd.ImportSkin(skinFbx, outDir), nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&fbx, "fbx", "", "Skinned fbx mesh")
	cmd.Flags().StringVar(&out, "out", "", "Output directory (default: actor's mesh folder)")
	return cmd
}
