package datatree

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"skymaya/internal/pathspec"
)

const (
	meshesDir   = "meshes"
	texturesDir = "textures"
	actorsDir   = "actors"
	dlcMarker   = "dlc"
)

var (
	// ErrProjectRootNotFound reports that the upward walk reached the
	// filesystem root without recognizing a data root.
	ErrProjectRootNotFound = errors.New("data root not found")
	// ErrDLCOutOfRange reports a dlc folder whose suffix is not a single
	// digit from 1 to 9.
	ErrDLCOutOfRange = errors.New("dlc index out of range")
)

// Context is the project information derived from one starting path.
type Context struct {
	Root  string
	Actor string
	// DLC is 0 for vanilla data.
	DLC int
}

// HasActor reports whether an actor name was inferred.
func (c Context) HasActor() bool {
	return c.Actor != ""
}

// Vanilla reports whether the context belongs to base game data.
func (c Context) Vanilla() bool {
	return c.DLC == 0
}

// Detect runs FindProjectRoot, InferActor, and InferDLC for path.
func Detect(path string) (Context, error) {
	root, err := FindProjectRoot(path)
	if err != nil {
		return Context{}, err
	}
	// Folders at or above the data root never name an actor or a DLC group.
	dlc, err := inferDLC(path, root)
	if err != nil {
		return Context{}, err
	}
	actor, _ := inferActor(path, root)
	return Context{Root: root, Actor: actor, DLC: dlc}, nil
}

// FindProjectRoot returns the data root containing path.
//
// A path ending in "meshes" or "textures" yields its parent; one ending in
// "actors" beneath either of those yields the grandparent; a directory that
// holds meshes/actors or textures/actors is itself the root. Otherwise the
// search moves one level up until the filesystem root.
func FindProjectRoot(path string) (string, error) {
	start := absolute(path)
	current := start
	for {
		if hasAnySuffix(current, meshesDir, texturesDir) {
			return filepath.Dir(current), nil
		}
		if strings.HasSuffix(current, actorsDir) {
			parent := filepath.Dir(current)
			if hasAnySuffix(parent, meshesDir, texturesDir) {
				return filepath.Dir(parent), nil
			}
		}
		if isDataRoot(current) {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w: %s", ErrProjectRootNotFound, start)
		}
		current = parent
	}
}

// InferActor walks upward and returns the first folder whose parent's name
// contains "dlc" or "actors".
func InferActor(path string) (string, bool) {
	return inferActor(path, "")
}

// inferActor stops once it reaches stop; an empty stop walks to the
// filesystem root.
func inferActor(path, stop string) (string, bool) {
	current := absolute(path)
	for {
		parent := filepath.Dir(current)
		if parent == current || current == stop {
			return "", false
		}
		name := filepath.Base(parent)
		if strings.Contains(name, dlcMarker) || strings.Contains(name, actorsDir) {
			return filepath.Base(current), true
		}
		current = parent
	}
}

// InferDLC walks upward to the first folder whose name contains "dlc" and
// reads the last character of that path as the index. Only single-digit
// numbering (dlc01..dlc09, dlc1..dlc9) is understood; anything else is
// ErrDLCOutOfRange. A path with no dlc folder returns 0.
func InferDLC(path string) (int, error) {
	return inferDLC(path, "")
}

func inferDLC(path, stop string) (int, error) {
	current := absolute(path)
	for {
		if current == stop {
			return 0, nil
		}
		if strings.Contains(filepath.Base(current), dlcMarker) {
			return parseDLC(current)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return 0, nil
		}
		current = parent
	}
}

func parseDLC(path string) (int, error) {
	name := filepath.Base(path)
	last := path[len(path)-1]
	if last < '1' || last > '9' {
		return 0, fmt.Errorf("%w: %q", ErrDLCOutOfRange, name)
	}
	if len(path) >= 2 {
		prev := path[len(path)-2]
		if prev >= '1' && prev <= '9' {
			return 0, fmt.Errorf("%w: %q", ErrDLCOutOfRange, name)
		}
	}
	return int(last - '0'), nil
}

func isDataRoot(path string) bool {
	return pathspec.IsDir(filepath.Join(path, meshesDir, actorsDir)) ||
		pathspec.IsDir(filepath.Join(path, texturesDir, actorsDir))
}

func hasAnySuffix(value string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(value, suffix) {
			return true
		}
	}
	return false
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
