package workflow_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"skymaya/internal/datatree"
	"skymaya/internal/logging"
	"skymaya/internal/testsupport"
	"skymaya/internal/workflow"
)

func TestNewSessionRequiresConfig(t *testing.T) {
	if _, err := workflow.NewSession(nil, logging.NewNop()); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNewSessionGeneratesRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	a := newSession(t, cfg, &stubExecutor{})
	b := newSession(t, cfg, &stubExecutor{})
	if a.RunID() == "" || a.RunID() == b.RunID() {
		t.Fatalf("expected distinct run ids, got %q and %q", a.RunID(), b.RunID())
	}
	if got := newSession(t, cfg, &stubExecutor{}, workflow.WithRunID("fixed")).RunID(); got != "fixed" {
		t.Fatalf("RunID = %q, want fixed", got)
	}
}

func TestSessionStartPathFallsBackToDefaultDataDir(t *testing.T) {
	root := newDataRoot(t)
	cfg := testsupport.NewConfig(t, testsupport.WithDataDir(filepath.Join(root, "meshes", "actors", "wolf")))
	session := newSession(t, cfg, &stubExecutor{})

	project, err := session.Project()
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if project.Root != root || project.Actor != "wolf" || !project.Vanilla() {
		t.Fatalf("unexpected project %+v", project)
	}

	locator, err := session.Locator()
	if err != nil {
		t.Fatalf("Locator returned error: %v", err)
	}
	dir, err := locator.AnimationDir()
	if err != nil || dir != filepath.Join(root, "meshes", "actors", "wolf", "animations") {
		t.Fatalf("AnimationDir = %q, %v", dir, err)
	}
}

func TestSessionProjectIsCached(t *testing.T) {
	root := newDataRoot(t)
	session := newSession(t, testsupport.NewConfig(t), &stubExecutor{}, workflow.WithStartPath(root))

	first, err := session.Project()
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if err := os.RemoveAll(root); err != nil {
		t.Fatal(err)
	}
	second, err := session.Project()
	if err != nil || second != first {
		t.Fatalf("expected cached project, got %+v, %v", second, err)
	}
}

func TestSessionProjectOutsideDataRoot(t *testing.T) {
	session := newSession(t, testsupport.NewConfig(t), &stubExecutor{}, workflow.WithStartPath(t.TempDir()))
	if _, err := session.Project(); !errors.Is(err, datatree.ErrProjectRootNotFound) {
		t.Fatalf("expected ErrProjectRootNotFound, got %v", err)
	}
}

func TestSessionLockIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := newSession(t, cfg, &stubExecutor{})
	second := newSession(t, cfg, &stubExecutor{})

	if err := first.Lock(); err != nil {
		t.Fatalf("first Lock: %v", err)
	}
	if err := second.Lock(); !errors.Is(err, workflow.ErrBatchInProgress) {
		t.Fatalf("expected ErrBatchInProgress, got %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := second.Lock(); err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
}

func TestSessionPreflight(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are not executable on windows")
	}
	root := newDataRoot(t)
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	session := newSession(t, cfg, &stubExecutor{})
	if err := session.Preflight(root); err != nil {
		t.Fatalf("Preflight returned error: %v", err)
	}

	cfg.Converter.Binary = "clearly-not-present-ck-cmd"
	if err := session.Preflight(root); err == nil {
		t.Fatal("expected preflight to fail without ck-cmd")
	}
}
