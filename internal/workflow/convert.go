package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"skymaya/internal/assets"
	"skymaya/internal/ckcmd"
	"skymaya/internal/logging"
	"skymaya/internal/pathspec"
)

// Step names one unit of progress inside a batch.
type Step string

const (
	StepRig        Step = "rig"
	StepAnimations Step = "animations"
)

// ProgressEvent is delivered after every step of ConvertDataRoot. Total is
// the step count of the current DLC group (actors × 2).
type ProgressEvent struct {
	DLC   int
	Actor string
	Step  Step
	Done  int
	Total int
	Err   error
}

// ConvertOptions controls ConvertDataRoot.
type ConvertOptions struct {
	// ContinueOnError moves on to the next actor after a failure instead of
	// halting the batch. Failures are joined into the returned error.
	ContinueOnError bool
	// LegacySkeleton selects skeleton_le.hkx over skeleton.hkx.
	LegacySkeleton bool
	// DLCs lists the groups to convert; 0 is vanilla. Empty means
	// vanilla, dlc01, dlc02.
	DLCs     []int
	Progress func(ProgressEvent)
}

// ConvertOptionsFromConfig seeds options from the [conversion] section.
func (s *Session) ConvertOptionsFromConfig() ConvertOptions {
	return ConvertOptions{
		ContinueOnError: s.cfg.Conversion.ContinueOnError,
		LegacySkeleton:  s.cfg.Conversion.LegacySkeleton,
		DLCs:            append([]int(nil), s.cfg.Conversion.DLCs...),
	}
}

// ActorOutcome reports the conversion of one actor.
type ActorOutcome struct {
	DLC    int    `json:"dlc"`
	Actor  string `json:"actor"`
	RigDir string `json:"rig_dir,omitempty"`
	TagDir string `json:"tag_dir,omitempty"`
	Err    error  `json:"-"`
}

// OK reports whether both steps succeeded.
func (o ActorOutcome) OK() bool {
	return o.Err == nil
}

// Summary reports a ConvertDataRoot run.
type Summary struct {
	Root          string         `json:"root"`
	Groups        []int          `json:"groups"`
	SkippedGroups []int          `json:"skipped_groups,omitempty"`
	Actors        []ActorOutcome `json:"actors"`
}

// Failed returns the outcomes that carry an error.
func (s Summary) Failed() []ActorOutcome {
	var failed []ActorOutcome
	for _, outcome := range s.Actors {
		if !outcome.OK() {
			failed = append(failed, outcome)
		}
	}
	return failed
}

var defaultDLCs = []int{0, 1, 2}

// ConvertDataRoot exports the rig and animations of every actor in the
// session's data root.
//
// Each DLC group whose actors folder is missing is skipped. For every actor
// the rig is exported into its character assets folder, then its animations
// into its tags folder, which is created when absent. Actors run strictly in
// order and cancellation is only observed between jobs. By default the first
// failure halts the batch.
func ConvertDataRoot(ctx context.Context, s *Session, opts ConvertOptions) (Summary, error) {
	root, err := s.Root()
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Root: root}
	dlcs := opts.DLCs
	if len(dlcs) == 0 {
		dlcs = defaultDLCs
	}

	var failures []error
	for _, dlc := range dlcs {
		locator := assets.New(root, "", dlc)
		actors, err := locator.ListActors()
		if errors.Is(err, pathspec.ErrDirectoryNotFound) {
			s.logger.Debug("dlc group skipped", logging.Int(logging.FieldDLC, dlc), logging.Error(err))
			summary.SkippedGroups = append(summary.SkippedGroups, dlc)
			continue
		}
		if err != nil {
			return summary, err
		}
		if dlc == 0 {
			actors = withoutDLCFolders(actors)
		}
		summary.Groups = append(summary.Groups, dlc)
		s.logger.Info("converting dlc group",
			logging.Int(logging.FieldDLC, dlc),
			logging.Int("actors", len(actors)),
		)

		total := len(actors) * 2
		done := 0
		report := func(actor string, step Step, stepErr error) {
			done++
			if opts.Progress != nil {
				opts.Progress(ProgressEvent{DLC: dlc, Actor: actor, Step: step, Done: done, Total: total, Err: stepErr})
			}
		}

		for _, actor := range actors {
			if err := ctx.Err(); err != nil {
				return summary, errors.Join(append(failures, err)...)
			}
			actorCtx := logging.WithDLC(logging.WithActor(ctx, actor), dlc)
			outcome := convertActor(actorCtx, s, locator.WithActor(actor), opts.LegacySkeleton, report)
			summary.Actors = append(summary.Actors, outcome)
			if outcome.Err == nil {
				continue
			}
			failure := fmt.Errorf("%s (%s): %w", actor, groupName(dlc), outcome.Err)
			if !opts.ContinueOnError {
				return summary, failure
			}
			logging.WithContext(actorCtx, s.logger).Warn("actor conversion failed; continuing", logging.Error(outcome.Err))
			failures = append(failures, failure)
		}
	}

	s.logger.Info("data root converted",
		logging.String(logging.FieldDataRoot, root),
		logging.Int("actors", len(summary.Actors)),
		logging.Int("failed", len(failures)),
	)
	return summary, errors.Join(failures...)
}

func convertActor(ctx context.Context, s *Session, l assets.Locator, legacy bool, report func(string, Step, error)) ActorOutcome {
	outcome := ActorOutcome{DLC: l.DLC, Actor: l.Actor}

	job, err := rigJob(l, legacy)
	if err == nil {
		outcome.RigDir = job.WorkDir
		_, err = s.Execute(ctx, job)
	}
	report(l.Actor, StepRig, err)
	if err != nil {
		// The animation export needs the same skeleton; count it as skipped.
		report(l.Actor, StepAnimations, err)
		outcome.Err = err
		return outcome
	}
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	tagDir, err := ensureTagDir(l)
	if err == nil {
		outcome.TagDir = tagDir
		err = exportAnimations(ctx, s, l, legacy, tagDir)
	}
	report(l.Actor, StepAnimations, err)
	outcome.Err = err
	return outcome
}

func rigJob(l assets.Locator, legacy bool) (ckcmd.Job, error) {
	skeletonHkx, skeletonNif, err := l.RequireSkeleton(legacy)
	if err != nil {
		return ckcmd.Job{}, err
	}
	charDir, err := l.CharacterAssetDir()
	if err != nil {
		return ckcmd.Job{}, err
	}
	animDir, err := l.AnimationDir()
	if err != nil {
		return ckcmd.Job{}, err
	}
	cacheFile, err := l.CacheFile(l.Actor)
	if err != nil {
		return ckcmd.Job{}, err
	}
	behaviorDir, err := l.BehaviorDir()
	if err != nil {
		return ckcmd.Job{}, err
	}
	return ckcmd.ExportRig(ckcmd.RigExport{
		SkeletonHkx:  skeletonHkx,
		SkeletonNif:  skeletonNif,
		OutputDir:    charDir,
		AnimationHkx: animDir,
		CacheTxt:     cacheFile,
		BehaviorDir:  behaviorDir,
	}), nil
}

func exportAnimations(ctx context.Context, s *Session, l assets.Locator, legacy bool, tagDir string) error {
	skeletonHkx, _, err := l.RequireSkeleton(legacy)
	if err != nil {
		return err
	}
	animDir, err := l.AnimationDir()
	if err != nil {
		return err
	}
	_, err = s.Execute(ctx, ckcmd.ExportAnimation(skeletonHkx, animDir, tagDir))
	return err
}

func ensureTagDir(l assets.Locator) (string, error) {
	tagDir, err := l.TagDir()
	if err != nil || tagDir != "" {
		return tagDir, err
	}
	actorDir, err := l.ActorDir()
	if err != nil {
		return "", err
	}
	if actorDir == "" {
		return "", &pathspec.NotFoundError{Kind: pathspec.ErrDirectoryNotFound, Path: l.ActorPattern().Join(l.Root)}
	}
	tagDir = filepath.Join(actorDir, "tags")
	if err := os.MkdirAll(tagDir, 0o755); err != nil {
		return "", fmt.Errorf("create tag directory: %w", err)
	}
	return tagDir, nil
}

// withoutDLCFolders drops dlcNN folders, which share meshes/actors with the
// vanilla actors.
func withoutDLCFolders(names []string) []string {
	kept := names[:0]
	for _, name := range names {
		if !strings.HasPrefix(strings.ToLower(name), "dlc") {
			kept = append(kept, name)
		}
	}
	return kept
}

func groupName(dlc int) string {
	if dlc == 0 {
		return "vanilla"
	}
	return assets.DLCFolder(dlc)
}
