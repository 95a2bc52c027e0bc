package pathspec_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"skymaya/internal/pathspec"
	"skymaya/internal/testsupport"
)

func TestResolveEmptyPatternReturnsRoot(t *testing.T) {
	root := t.TempDir()
	got, err := pathspec.Resolve(root, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != root {
		t.Fatalf("expected %q, got %q", root, got)
	}
}

func TestResolveLiteralsAndWildcardAreDeterministic(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeTree(t, root,
		"meshes/actors/bear/animations/",
		"meshes/actors/wolf/animations/",
	)

	pattern := pathspec.Pattern{
		pathspec.Literal("meshes"),
		pathspec.Literal("actors"),
		pathspec.Wildcard(),
		pathspec.Literal("animations"),
	}
	first, err := pathspec.Resolve(root, pattern)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	second, err := pathspec.Resolve(root, pattern)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if first != second {
		t.Fatalf("expected deterministic result, got %q then %q", first, second)
	}
	want := filepath.Join(root, "meshes", "actors", "bear", "animations")
	if first != want {
		t.Fatalf("expected wildcard to pick first entry %q, got %q", want, first)
	}
}

func TestResolveAlternativesBacktracks(t *testing.T) {
	root := t.TempDir()
	// "a" exists but has no "leaf"; "b" completes the pattern.
	testsupport.MakeTree(t, root,
		"a/other/",
		"b/leaf/",
	)

	pattern := pathspec.Pattern{
		pathspec.Alternatives("a", "b"),
		pathspec.Literal("leaf"),
	}
	got, err := pathspec.Resolve(root, pattern)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := filepath.Join(root, "b", "leaf"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveAlternativesSkipsMissingCandidates(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeTree(t, root, "characterassets/skeleton.hkx")

	got, err := pathspec.Resolve(root, pathspec.Pattern{pathspec.Alternatives("character assets", "characterassets")})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := filepath.Join(root, "characterassets"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveWildcardDoesNotBacktrack(t *testing.T) {
	root := t.TempDir()
	// The first entry ("a") lacks "leaf"; the second ("b") has it.
	testsupport.MakeTree(t, root,
		"a/",
		"b/leaf/",
	)

	_, err := pathspec.Resolve(root, pathspec.Pattern{pathspec.Wildcard(), pathspec.Literal("leaf")})
	if !errors.Is(err, pathspec.ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}
}

func TestResolveWildcardOnEmptyDirectoryFails(t *testing.T) {
	root := t.TempDir()
	_, err := pathspec.Resolve(root, pathspec.Pattern{pathspec.Wildcard()})
	if !errors.Is(err, pathspec.ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}
}

func TestResolveWildcardMixesFilesAndDirectories(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeTree(t, root, "a.txt", "b/")

	got, err := pathspec.Resolve(root, pathspec.Pattern{pathspec.Wildcard()})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := filepath.Join(root, "a.txt"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveFailureNamesFullRequestedPath(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeTree(t, root, "meshes/")

	pattern := pathspec.Pattern{
		pathspec.Literal("meshes"),
		pathspec.Literal("actors"),
		pathspec.Literal("wolf"),
		pathspec.Alternatives("character assets", "characterassets"),
	}
	_, err := pathspec.Resolve(root, pattern)
	var nf *pathspec.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T (%v)", err, err)
	}
	want := filepath.Join(root, "meshes", "actors", "wolf", "{character assets,characterassets}")
	if nf.Path != want {
		t.Fatalf("expected full path %q, got %q", want, nf.Path)
	}
	if !strings.Contains(err.Error(), "wolf") {
		t.Fatalf("expected error message to include requested path, got %q", err.Error())
	}
}

func TestResolveLiteralRequiresDirectoryBeforeFinalSegment(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeTree(t, root, "meshes/actors")

	if _, err := pathspec.Resolve(root, pathspec.Literals("meshes", "actors", "wolf")); !errors.Is(err, pathspec.ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound when descending through a file, got %v", err)
	}
	got, err := pathspec.Resolve(root, pathspec.Literals("meshes", "actors"))
	if err != nil {
		t.Fatalf("expected final literal to accept a file, got %v", err)
	}
	if want := filepath.Join(root, "meshes", "actors"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestLiteralEmptyNameActsAsWildcard(t *testing.T) {
	if kind := pathspec.Literal("").Kind(); kind != pathspec.KindWildcard {
		t.Fatalf("expected wildcard kind, got %s", kind)
	}
}

func TestResolveAlternativesReportsUnreadableCandidate(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs unix permissions enforced for the current user")
	}
	root := t.TempDir()
	testsupport.MakeTree(t, root, "locked/b/")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o600); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err := pathspec.Resolve(root, pathspec.Pattern{pathspec.Literal("locked"), pathspec.Alternatives("a", "b")})
	if err == nil {
		t.Fatal("expected permission error")
	}
	if errors.Is(err, pathspec.ErrDirectoryNotFound) {
		t.Fatalf("permission error must not read as a missing directory: %v", err)
	}
}
