// Package assets maps named asset kinds of a data root to path patterns and
// resolves them for one actor and DLC.
package assets

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"skymaya/internal/datatree"
	"skymaya/internal/pathspec"
)

const (
	skeletonHkx       = "skeleton.hkx"
	legacySkeletonHkx = "skeleton_le.hkx"
	skeletonNif       = "skeleton.nif"
)

// Locator resolves catalog entries for one actor inside a data root. An empty
// Actor matches the first actor folder found; DLC 0 means vanilla data.
//
// Directory accessors return "" with a nil error when the directory is
// absent. Only unexpected filesystem failures are returned as errors.
type Locator struct {
	Root  string
	Actor string
	DLC   int
}

// New constructs a Locator.
func New(root, actor string, dlc int) Locator {
	return Locator{Root: root, Actor: actor, DLC: dlc}
}

// FromContext constructs a Locator from inferred project information.
func FromContext(ctx datatree.Context) Locator {
	return Locator{Root: ctx.Root, Actor: ctx.Actor, DLC: ctx.DLC}
}

// WithActor returns a copy of l scoped to actor.
func (l Locator) WithActor(actor string) Locator {
	l.Actor = actor
	return l
}

// DLCFolder returns the folder name for a DLC index, e.g. "dlc01".
func DLCFolder(dlc int) string {
	return fmt.Sprintf("dlc0%d", dlc)
}

// ActorsPattern is meshes/actors[/dlc0N].
func (l Locator) ActorsPattern() pathspec.Pattern {
	p := pathspec.Literals("meshes", "actors")
	if l.DLC > 0 {
		p = append(p, pathspec.Literal(DLCFolder(l.DLC)))
	}
	return p
}

// ActorPattern is the actor folder followed by tail.
func (l Locator) ActorPattern(tail ...pathspec.Segment) pathspec.Pattern {
	p := append(l.ActorsPattern(), pathspec.Literal(l.Actor))
	return append(p, tail...)
}

// TexturePattern is textures[/dlc0N]/actors/<actor>.
func (l Locator) TexturePattern() pathspec.Pattern {
	p := pathspec.Literals("textures")
	if l.DLC > 0 {
		p = append(p, pathspec.Literal(DLCFolder(l.DLC)))
	}
	return append(p, pathspec.Literal("actors"), pathspec.Literal(l.Actor))
}

// CharacterAssetPattern accepts both historical spellings of the folder.
func (l Locator) CharacterAssetPattern() pathspec.Pattern {
	return l.ActorPattern(pathspec.Alternatives("character assets", "characterassets"))
}

// TextureDir returns textures[/dlc0N]/actors/<actor>.
func (l Locator) TextureDir() (string, error) {
	return l.optionalDir(l.TexturePattern())
}

// ActorsDir returns the folder holding every actor of the DLC.
func (l Locator) ActorsDir() (string, error) {
	return l.optionalDir(l.ActorsPattern())
}

// ActorDir returns the actor's mesh folder.
func (l Locator) ActorDir() (string, error) {
	return l.optionalDir(l.ActorPattern())
}

// AnimationDir returns <actor>/animations.
func (l Locator) AnimationDir() (string, error) {
	return l.optionalDir(l.ActorPattern(pathspec.Literal("animations")))
}

// CharacterAssetDir returns <actor>/character assets or <actor>/characterassets.
func (l Locator) CharacterAssetDir() (string, error) {
	return l.optionalDir(l.CharacterAssetPattern())
}

// BehaviorDir returns <actor>/behaviors.
func (l Locator) BehaviorDir() (string, error) {
	return l.optionalDir(l.ActorPattern(pathspec.Literal("behaviors")))
}

// TagDir returns <actor>/tags.
func (l Locator) TagDir() (string, error) {
	return l.optionalDir(l.ActorPattern(pathspec.Literal("tags")))
}

// AnimationDataDir returns meshes/animationdata. It is shared by every actor
// and DLC.
func (l Locator) AnimationDataDir() (string, error) {
	return l.optionalDir(pathspec.Literals("meshes", "animationdata"))
}

// BoundAnimDir returns meshes/animationdata/boundanims.
func (l Locator) BoundAnimDir() (string, error) {
	return l.optionalDir(pathspec.Literals("meshes", "animationdata", "boundanims"))
}

// CacheFile returns the first animation cache file containing name.
func (l Locator) CacheFile(name string) (string, error) {
	dir, err := l.AnimationDataDir()
	if err != nil {
		return "", err
	}
	return firstFile(dir, name), nil
}

// BoundAnimFile returns the first bound anim file containing name.
func (l Locator) BoundAnimFile(name string) (string, error) {
	dir, err := l.BoundAnimDir()
	if err != nil {
		return "", err
	}
	return firstFile(dir, name), nil
}

// SkeletonHkx returns the actor's skeleton.hkx, or skeleton_le.hkx when
// legacy is set.
func (l Locator) SkeletonHkx(legacy bool) (string, error) {
	name := skeletonHkx
	if legacy {
		name = legacySkeletonHkx
	}
	return l.characterAssetFile(name)
}

// SkeletonNif returns the actor's skeleton.nif.
func (l Locator) SkeletonNif() (string, error) {
	return l.characterAssetFile(skeletonNif)
}

// RequireSkeleton returns the skeleton hkx and nif a conversion needs. A
// missing file is a *pathspec.NotFoundError wrapping ErrFileNotFound that
// names where it was expected.
func (l Locator) RequireSkeleton(legacy bool) (hkx, nif string, err error) {
	dir, err := l.CharacterAssetDir()
	if err != nil {
		return "", "", err
	}
	if dir == "" {
		dir = l.CharacterAssetPattern().Join(l.Root)
	}
	if hkx, err = pathspec.RequireFile(dir, skeletonName(legacy)); err != nil {
		return "", "", err
	}
	if nif, err = pathspec.RequireFile(dir, skeletonNif); err != nil {
		return "", "", err
	}
	return hkx, nif, nil
}

// ListActors returns the sorted actor folder names. Unlike the other
// accessors a missing actors folder is reported as ErrDirectoryNotFound, so
// batch callers can skip a DLC group that is not present.
func (l Locator) ListActors() ([]string, error) {
	dir, err := pathspec.Resolve(l.Root, l.ActorsPattern())
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	actors := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			actors = append(actors, entry.Name())
		}
	}
	sort.Strings(actors)
	return actors, nil
}

func (l Locator) characterAssetFile(name string) (string, error) {
	dir, err := l.CharacterAssetDir()
	if err != nil {
		return "", err
	}
	return firstFile(dir, name), nil
}

func (l Locator) optionalDir(pattern pathspec.Pattern) (string, error) {
	path, err := pathspec.Resolve(l.Root, pattern)
	if err != nil {
		if errors.Is(err, pathspec.ErrDirectoryNotFound) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}

func firstFile(dir, keyword string) string {
	path, _ := pathspec.FirstFile(dir, keyword)
	return path
}
