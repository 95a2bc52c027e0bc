package assets

// Entry is one resolved catalog item. Path is empty when the asset is absent.
type Entry struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Path    string `json:"path"`
}

// Describe resolves every catalog item for the locator. The actor name is
// used as the keyword for the shared cache and bound-anim lookups.
func (l Locator) Describe(legacySkeleton bool) ([]Entry, error) {
	type item struct {
		name    string
		pattern string
		lookup  func() (string, error)
	}
	items := []item{
		{"actors", l.ActorsPattern().String(), l.ActorsDir},
		{"actor", l.ActorPattern().String(), l.ActorDir},
		{"textures", l.TexturePattern().String(), l.TextureDir},
		{"animations", l.ActorPattern().String() + "/animations", l.AnimationDir},
		{"character assets", l.CharacterAssetPattern().String(), l.CharacterAssetDir},
		{"behaviors", l.ActorPattern().String() + "/behaviors", l.BehaviorDir},
		{"tags", l.ActorPattern().String() + "/tags", l.TagDir},
		{"animation data", "meshes/animationdata", l.AnimationDataDir},
		{"bound anims", "meshes/animationdata/boundanims", l.BoundAnimDir},
		{"cache file", "meshes/animationdata/**/*" + l.Actor + "*", func() (string, error) { return l.CacheFile(l.Actor) }},
		{"bound anim file", "meshes/animationdata/boundanims/**/*" + l.Actor + "*", func() (string, error) { return l.BoundAnimFile(l.Actor) }},
		{"skeleton.hkx", "character assets/**/" + skeletonName(legacySkeleton), func() (string, error) { return l.SkeletonHkx(legacySkeleton) }},
		{"skeleton.nif", "character assets/**/" + skeletonNif, l.SkeletonNif},
	}

	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		path, err := it.lookup()
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: it.name, Pattern: it.pattern, Path: path})
	}
	return entries, nil
}

func skeletonName(legacy bool) string {
	if legacy {
		return legacySkeletonHkx
	}
	return skeletonHkx
}
