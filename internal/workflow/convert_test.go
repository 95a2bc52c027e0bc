package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skymaya/internal/ckcmd"
	"skymaya/internal/history"
	"skymaya/internal/logging"
	"skymaya/internal/pathspec"
	"skymaya/internal/preflight"
	"skymaya/internal/testsupport"
	"skymaya/internal/workflow"
)

func TestConvertDataRootConvertsEveryActor(t *testing.T) {
	root := newDataRoot(t)
	exec := &stubExecutor{}
	session := newSession(t, testsupport.NewConfig(t), exec, workflow.WithStartPath(root))

	var events []workflow.ProgressEvent
	summary, err := workflow.ConvertDataRoot(context.Background(), session, workflow.ConvertOptions{
		Progress: func(ev workflow.ProgressEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("ConvertDataRoot returned error: %v", err)
	}

	if summary.Root != root {
		t.Fatalf("root = %q, want %q", summary.Root, root)
	}
	if len(summary.Groups) != 2 || summary.Groups[0] != 0 || summary.Groups[1] != 1 {
		t.Fatalf("unexpected groups %v", summary.Groups)
	}
	if len(summary.SkippedGroups) != 1 || summary.SkippedGroups[0] != 2 {
		t.Fatalf("expected group 2 to be skipped, got %v", summary.SkippedGroups)
	}
	var actors []string
	for _, outcome := range summary.Actors {
		actors = append(actors, outcome.Actor)
	}
	if strings.Join(actors, ",") != "bear,wolf,fox" {
		t.Fatalf("unexpected actor order %v", actors)
	}

	if exec.calls() != 6 {
		t.Fatalf("expected 6 ck-cmd calls, got %d: %v", exec.calls(), exec.commands)
	}
	for i, op := range []string{"exportrig", "exportanimation", "exportrig", "exportanimation", "exportrig", "exportanimation"} {
		if !strings.HasPrefix(exec.commands[i], "ck-cmd "+op+" ") {
			t.Fatalf("call %d = %q, want %s", i, exec.commands[i], op)
		}
	}

	wolfDir := filepath.ToSlash(filepath.Join(root, "meshes", "actors", "wolf"))
	wantRig := `ck-cmd exportrig "` + wolfDir + `/character assets/skeleton.hkx" "` + wolfDir + `/character assets/skeleton.nif"` +
		` --e="` + wolfDir + `/character assets" --a="` + wolfDir + `/animations" --n=""` +
		` --b="` + wolfDir + `/behaviors" --c="` + filepath.ToSlash(filepath.Join(root, "meshes", "animationdata", "wolfproject.txt")) + `"`
	if exec.commands[2] != wantRig {
		t.Fatalf("wolf rig command:\n got %s\nwant %s", exec.commands[2], wantRig)
	}
	if exec.dirs[3] != wolfDir+"/tags" {
		t.Fatalf("wolf animations should run in the tag folder, got %q", exec.dirs[3])
	}

	if info, err := os.Stat(filepath.Join(root, "meshes", "actors", "bear", "tags")); err != nil || !info.IsDir() {
		t.Fatalf("expected missing tag folder to be created: %v", err)
	}

	if len(events) != 6 {
		t.Fatalf("expected 6 progress events, got %d", len(events))
	}
	if last := events[3]; last.Actor != "wolf" || last.Step != workflow.StepAnimations || last.Done != 4 || last.Total != 4 {
		t.Fatalf("unexpected vanilla progress event %+v", last)
	}
	if last := events[5]; last.DLC != 1 || last.Done != 2 || last.Total != 2 {
		t.Fatalf("unexpected dlc progress event %+v", last)
	}

	if stats := session.Stats(); stats.Invocations != 6 || stats.Failures != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestConvertDataRootHaltsOnFirstFailure(t *testing.T) {
	root := newDataRoot(t)
	exec := &stubExecutor{failOn: "/bear/"}
	session := newSession(t, testsupport.NewConfig(t), exec, workflow.WithStartPath(root))

	summary, err := workflow.ConvertDataRoot(context.Background(), session, workflow.ConvertOptions{})
	if err == nil {
		t.Fatal("expected batch to halt with an error")
	}
	var convErr *ckcmd.ConversionError
	if !errors.As(err, &convErr) || !strings.Contains(convErr.Stderr, "Exception") {
		t.Fatalf("expected ConversionError carrying stderr, got %v", err)
	}
	if !strings.Contains(err.Error(), "bear (vanilla)") {
		t.Fatalf("error should name the actor and group: %v", err)
	}
	if exec.calls() != 1 {
		t.Fatalf("expected the batch to stop after one call, got %d", exec.calls())
	}
	if len(summary.Actors) != 1 || summary.Actors[0].OK() {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestConvertDataRootContinuesOnError(t *testing.T) {
	root := newDataRoot(t)
	exec := &stubExecutor{failOn: "/bear/"}
	cfg := testsupport.NewConfig(t, testsupport.WithContinueOnError(true))
	session := newSession(t, cfg, exec, workflow.WithStartPath(root))

	summary, err := workflow.ConvertDataRoot(context.Background(), session, session.ConvertOptionsFromConfig())
	if !errors.Is(err, ckcmd.ErrConversionFailed) {
		t.Fatalf("expected joined conversion failure, got %v", err)
	}
	if exec.calls() != 5 {
		t.Fatalf("expected bear rig plus four remaining calls, got %d", exec.calls())
	}
	failed := summary.Failed()
	if len(failed) != 1 || failed[0].Actor != "bear" {
		t.Fatalf("unexpected failures %+v", failed)
	}
	if stats := session.Stats(); stats.Failures != 1 {
		t.Fatalf("expected one failed invocation, got %+v", stats)
	}
}

func TestConvertDataRootMissingSkeleton(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	testsupport.MakeTree(t, root, "meshes/actors/horse/animations/gallop.hkx")
	exec := &stubExecutor{}
	session := newSession(t, testsupport.NewConfig(t), exec, workflow.WithStartPath(root))

	_, err := workflow.ConvertDataRoot(context.Background(), session, workflow.ConvertOptions{DLCs: []int{0}})
	if !errors.Is(err, pathspec.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if exec.calls() != 0 {
		t.Fatalf("ck-cmd should not run without a skeleton, got %d calls", exec.calls())
	}
}

func TestConvertDataRootUnderDLCNamedFolder(t *testing.T) {
	root := filepath.Join(t.TempDir(), "skyrim_dlc_mods", "Data")
	testsupport.MakeTree(t, root,
		"meshes/actors/wolf/character assets/skeleton.hkx",
		"meshes/actors/wolf/character assets/skeleton.nif",
	)
	exec := &stubExecutor{}
	session := newSession(t, testsupport.NewConfig(t), exec, workflow.WithStartPath(root))

	summary, err := workflow.ConvertDataRoot(context.Background(), session, workflow.ConvertOptions{})
	if err != nil {
		t.Fatalf("ConvertDataRoot returned error: %v", err)
	}
	if summary.Root != root || len(summary.Actors) != 1 || summary.Actors[0].Actor != "wolf" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if exec.calls() != 2 {
		t.Fatalf("expected 2 ck-cmd calls, got %d: %v", exec.calls(), exec.commands)
	}
	if res := preflight.CheckDataRoot(summary.Root); !res.Passed {
		t.Fatalf("data root check failed: %s", res.Detail)
	}
}

func TestConvertDataRootLegacySkeleton(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	testsupport.MakeTree(t, root,
		"meshes/actors/troll/character assets/skeleton_le.hkx",
		"meshes/actors/troll/character assets/skeleton.nif",
	)
	exec := &stubExecutor{}
	session := newSession(t, testsupport.NewConfig(t), exec, workflow.WithStartPath(root))

	if _, err := workflow.ConvertDataRoot(context.Background(), session, workflow.ConvertOptions{DLCs: []int{0}, LegacySkeleton: true}); err != nil {
		t.Fatalf("ConvertDataRoot returned error: %v", err)
	}
	if exec.calls() != 2 || !strings.Contains(exec.commands[0], "skeleton_le.hkx") {
		t.Fatalf("expected legacy skeleton in commands, got %v", exec.commands)
	}
}

func TestConvertDataRootCancelled(t *testing.T) {
	root := newDataRoot(t)
	exec := &stubExecutor{}
	session := newSession(t, testsupport.NewConfig(t), exec, workflow.WithStartPath(root))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := workflow.ConvertDataRoot(ctx, session, workflow.ConvertOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if exec.calls() != 0 {
		t.Fatalf("expected no calls after cancellation, got %d", exec.calls())
	}
}

func TestConvertDataRootRecordsHistory(t *testing.T) {
	root := newDataRoot(t)
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	exec := &stubExecutor{failOn: "/wolf/tags"}
	session := newSession(t, cfg, exec, workflow.WithStartPath(root), workflow.WithHistory(store), workflow.WithRunID("run-1"))

	_, err = workflow.ConvertDataRoot(context.Background(), session, workflow.ConvertOptions{DLCs: []int{0}, ContinueOnError: true})
	if err == nil {
		t.Fatal("expected wolf animation export to fail")
	}

	records, err := store.ListRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("ListRun: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	last := records[3]
	if last.Actor != "wolf" || last.Operation != "exportanimation" || last.OK || last.ExitCode != 1 {
		t.Fatalf("unexpected last record %+v", last)
	}
	if !strings.Contains(last.Stderr, "Exception") || last.LogPath == "" {
		t.Fatalf("record should keep stderr and log path: %+v", last)
	}
}

func TestSessionExecuteTagsHistoryFromContext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	session := newSession(t, cfg, &stubExecutor{}, workflow.WithHistory(store))

	ctx := logging.WithDLC(logging.WithActor(context.Background(), "fox"), 1)
	if _, err := session.Execute(ctx, ckcmd.ImportSkin("/in/fox.fbx", t.TempDir())); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	records, err := store.ListRun(context.Background(), session.RunID())
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one record, got %v (%v)", records, err)
	}
	if records[0].Actor != "fox" || records[0].DLC != 1 || records[0].Operation != "importskin" {
		t.Fatalf("unexpected record %+v", records[0])
	}
}
