package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"skymaya/internal/logging"
	"skymaya/internal/pathspec"
	"skymaya/internal/testsupport"
	"skymaya/internal/workflow"
)

func TestExtractActorCopiesActorFiles(t *testing.T) {
	root := newDataRoot(t)
	dest := filepath.Join(t.TempDir(), "extracted")

	res, err := workflow.ExtractActor(context.Background(), logging.NewNop(), workflow.ExtractRequest{
		Source:      filepath.Join(root, "meshes", "actors", "wolf", "animations"),
		Destination: dest,
	})
	if err != nil {
		t.Fatalf("ExtractActor returned error: %v", err)
	}
	if res.Actor != "wolf" || res.Root != root || res.DLC != 0 {
		t.Fatalf("unexpected result %+v", res)
	}

	for _, rel := range []string{
		"meshes/actors/wolf/character assets/skeleton.hkx",
		"meshes/actors/wolf/character assets/skeleton.nif",
		"meshes/actors/wolf/animations/walk.hkx",
		"meshes/actors/wolf/behaviors/wolfbehavior.hkx",
		"textures/actors/wolf/wolf.dds",
		"meshes/animationdata/wolfproject.txt",
		"meshes/animationdata/boundanims/anims_wolfproject.txt",
		"meshes/creatures.txt",
	} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("expected %s in destination: %v", rel, err)
		}
	}
	if info, err := os.Stat(filepath.Join(dest, "meshes", "actors", "wolf", "tags")); err != nil || !info.IsDir() {
		t.Fatalf("expected empty tags folder to be copied: %v", err)
	}
	if res.Files != 5 {
		t.Fatalf("expected 5 actor and texture files, got %d", res.Files)
	}
	if len(res.DataSetFiles) != 1 || res.CacheFile == "" || res.BoundAnim == "" {
		t.Fatalf("unexpected extras %+v", res)
	}
}

func TestExtractActorFromGroupFolder(t *testing.T) {
	root := newDataRoot(t)
	dest := filepath.Join(t.TempDir(), "extracted")

	res, err := workflow.ExtractActor(context.Background(), nil, workflow.ExtractRequest{
		Source:      filepath.Join(root, "meshes", "actors", "dlc01", "fox"),
		Destination: dest,
	})
	if err != nil {
		t.Fatalf("ExtractActor returned error: %v", err)
	}
	if res.Actor != "fox" || res.DLC != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := os.Stat(filepath.Join(dest, "meshes", "actors", "fox", "character assets", "skeleton.nif")); err != nil {
		t.Fatalf("expected group actor without a group folder in destination: %v", err)
	}
	if res.CacheFile != "" || res.BoundAnim != "" {
		t.Fatalf("fox has no cache files, got %+v", res)
	}
}

func TestExtractActorExplicitActor(t *testing.T) {
	root := newDataRoot(t)
	dest := filepath.Join(t.TempDir(), "extracted")

	res, err := workflow.ExtractActor(context.Background(), nil, workflow.ExtractRequest{
		Source:      root,
		Actor:       "bear",
		Destination: dest,
	})
	if err != nil {
		t.Fatalf("ExtractActor returned error: %v", err)
	}
	if res.Files != 2 {
		t.Fatalf("expected bear's 2 files, got %d", res.Files)
	}
}

func TestExtractActorErrors(t *testing.T) {
	root := newDataRoot(t)
	dest := filepath.Join(t.TempDir(), "extracted")
	ctx := context.Background()

	if _, err := workflow.ExtractActor(ctx, nil, workflow.ExtractRequest{Source: root, Destination: dest}); err == nil {
		t.Fatal("expected error when no actor can be inferred")
	}
	_, err := workflow.ExtractActor(ctx, nil, workflow.ExtractRequest{Source: root, Actor: "dragon", Destination: dest})
	if !errors.Is(err, pathspec.ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound for unknown actor, got %v", err)
	}
	if _, err := workflow.ExtractActor(ctx, nil, workflow.ExtractRequest{Source: root, Actor: "wolf"}); err == nil {
		t.Fatal("expected error without destination")
	}
	other := t.TempDir()
	testsupport.MakeTree(t, other, "unrelated/")
	if _, err := workflow.ExtractActor(ctx, nil, workflow.ExtractRequest{Source: other, Actor: "wolf", Destination: dest}); err == nil {
		t.Fatal("expected error outside a data root")
	}
}
